// Package models defines the client-side data model: the signed-in user,
// task records as served by the API, the create/edit form and user-facing
// notifications.
package models

// Role is the principal's role. It decides field visibility server-side.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the current-user record. The client never mutates it; it is
// replaced wholesale on every fetch.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether u is non-nil and has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
