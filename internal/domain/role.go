package domain

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanManageTemplates reports whether the role may edit the template catalog.
func (r Role) CanManageTemplates() bool {
	return r == RoleAdmin
}

// CanManageAccess reports whether the role may grant or revoke access periods.
func (r Role) CanManageAccess() bool {
	return r == RoleAdmin
}

// HasUnlimitedDocuments reports whether the role bypasses the demo document quota.
func (r Role) HasUnlimitedDocuments() bool {
	return r == RoleAdmin
}

// CanAccess reports whether an identity with this role and userID may touch
// a resource owned by ownerID. Ownership is required for every role.
func (r Role) CanAccess(userID, ownerID string) bool {
	return r.Valid() && userID != "" && userID == ownerID
}
