package models

// Role is the authorization role of a principal.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Principal is the authenticated caller of a request. It is never persisted;
// it travels inside a signed token and is re-verified on every request.
type Principal struct {
	Role Role

	// StudentID is set iff Role is RoleUser.
	StudentID int64

	// NIS and Name are informational copies taken at login.
	NIS  string
	Name string
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
