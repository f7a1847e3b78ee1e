package domain

import "time"

type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Email         string    `json:"email" dynamodbav:"email"`
	FirstName     string    `json:"firstName" dynamodbav:"first_name"`
	LastName      string    `json:"lastName" dynamodbav:"last_name"`
	Position      string    `json:"position,omitempty" dynamodbav:"position"`
	Company       string    `json:"company,omitempty" dynamodbav:"company"`
	Role          Role      `json:"role" dynamodbav:"role"`
	EmailVerified bool      `json:"emailVerified" dynamodbav:"email_verified"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updated_at"`

	// DocumentsUsed counts documents created against the demo quota. It only
	// grows; deleting a document does not give the slot back.
	DocumentsUsed int `json:"documentsUsed" dynamodbav:"documents_used"`

	AccessFrom      *time.Time `json:"accessFrom,omitempty" dynamodbav:"access_from,omitempty"`
	AccessUntil     *time.Time `json:"accessUntil,omitempty" dynamodbav:"access_until,omitempty"`
	AccessUpdatedBy string     `json:"accessUpdatedBy,omitempty" dynamodbav:"access_updated_by,omitempty"`
	AccessComment   string     `json:"accessComment,omitempty" dynamodbav:"access_comment,omitempty"`
}

// AccessState describes a user's admin-granted access period at a point in time.
type AccessState string

const (
	AccessNone    AccessState = "none"
	AccessPending AccessState = "pending"
	AccessActive  AccessState = "active"
	AccessExpired AccessState = "expired"
)

// AccessState reports where now falls relative to the user's access period.
// A user without an end date has no period and falls back to the demo quota.
func (u *User) AccessState(now time.Time) AccessState {
	switch {
	case u.AccessUntil == nil:
		return AccessNone
	case now.After(*u.AccessUntil):
		return AccessExpired
	case u.AccessFrom != nil && now.Before(*u.AccessFrom):
		return AccessPending
	default:
		return AccessActive
	}
}

// AccessGrant is an access period as written by an administrator. Nil
// bounds clear the period.
type AccessGrant struct {
	From      *time.Time
	Until     *time.Time
	UpdatedBy string
	Comment   string
}

// UpdateProfileRequest is the body of PUT /api/users/me. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	Position  *string `json:"position" validate:"omitempty,max=200"`
	Company   *string `json:"company" validate:"omitempty,max=200"`
}

// UpdateAccessRequest is the body of PUT /api/admin/access/{userId}. A
// missing start date means the period starts now.
type UpdateAccessRequest struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate" validate:"required"`
	Comment   string     `json:"comment" validate:"max=1000"`
}

// SearchAccessRequest is the body of POST /api/admin/access/search.
type SearchAccessRequest struct {
	Email string `json:"email" validate:"required"`
}

// AccessView is one user as shown on the access management screens.
type AccessView struct {
	UserID         string      `json:"userId"`
	Email          string      `json:"email"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Role           Role        `json:"role"`
	Status         AccessState `json:"status"`
	StartDate      *time.Time  `json:"startDate,omitempty"`
	EndDate        *time.Time  `json:"endDate,omitempty"`
	UpdatedBy      string      `json:"updatedBy,omitempty"`
	Comment        string      `json:"comment,omitempty"`
	DocumentsUsed  int         `json:"documentsUsed"`
	DocumentsLimit int         `json:"documentsLimit"`
	CreatedAt      time.Time   `json:"createdAt"`
}
