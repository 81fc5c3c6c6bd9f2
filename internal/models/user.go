package models

// Role names stored in the users.role column.
// The column is free text; only these two values have a meaning to the service.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User represents an account in the system
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never serialize password hash
	PasswordSalt string `json:"-"`
	Role         string `json:"role"`
	PersonID     *int   `json:"personId,omitempty"` // nil until a profile is attached
}

// HasProfile reports whether a personal profile is attached to the user
func (u *User) HasProfile() bool {
	return u.PersonID != nil
}

// IsAdmin reports whether the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// SetRoleRequest represents an admin request to change a user's role
type SetRoleRequest struct {
	Role string `json:"role"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}
