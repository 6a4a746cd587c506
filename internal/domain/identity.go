package domain

// Role is the coarse access level carried by an authenticated subject.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Subject is the authenticated caller of a protected operation. It is
// produced by token validation, immutable for the lifetime of the request,
// and never persisted by the authorization layer.
type Subject struct {
	ID    int64
	Email string
	Role  Role
}

// IsAdmin reports whether the subject carries the admin role.
func (s Subject) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsZero reports whether the subject is unset (no authenticated caller).
func (s Subject) IsZero() bool {
	return s.ID == 0
}
