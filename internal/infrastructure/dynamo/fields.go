package dynamo

// DynamoDB attribute names used in key maps and expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID         = "user_id"
	fieldOwnerID        = "owner_id"
	fieldSessionID      = "session_id"
	fieldEmail          = "email"
	fieldDeliveryToken  = "delivery_token"
	fieldAttemptCount   = "attempt_count"
	fieldOrganizationID = "organization_id"
	fieldDocumentID     = "document_id"
	fieldCode           = "code"
	fieldFirstName      = "first_name"
	fieldLastName       = "last_name"
	fieldPosition       = "position"
	fieldCompany        = "company"
	fieldEmailVerified  = "email_verified"
	fieldUpdatedAt      = "updated_at"
	fieldDocumentsUsed  = "documents_used"
	fieldAccessFrom     = "access_from"
	fieldAccessUntil    = "access_until"
	fieldAccessBy       = "access_updated_by"
	fieldAccessComment  = "access_comment"

	indexUserID  = "user_id-index"
	indexOwnerID = "owner_id-index"
)
