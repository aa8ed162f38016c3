package models

// UserRole represents the roles known to the employee service.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleEmployee UserRole = "EMPLOYEE"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is the authenticated identity resolved by the "me" query.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}
