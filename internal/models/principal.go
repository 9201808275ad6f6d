package models

// Principal is the authenticated caller attached to a request for the
// duration of handling. It carries exactly what the bearer credential
// asserts: an account identifier and a role.
type Principal struct {
	ID   uint
	Role Role
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
