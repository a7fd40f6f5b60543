package model

import (
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// User represents an admin or teacher account. Students do not log in.
// IsSuperAdmin is decided once when the account is provisioned; call sites
// must check this flag instead of comparing identities against literals.
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"-"`
	Role         rules.Role `json:"role"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	CreatedBy    *int       `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Actor converts the stored user into the rule engine's acting identity.
func (u *User) Actor() rules.Actor {
	return rules.Actor{ID: u.ID, Role: u.Role, SuperAdmin: u.IsSuperAdmin}
}

// LoginRequest is the payload for admin/teacher authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest is the payload for provisioning a new account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     string `json:"role" binding:"required,oneof=admin teacher"`
}

// UpdateUserRequest is the payload for updating an existing account.
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"omitempty,min=6,max=128"`
	Role     string `json:"role" binding:"required,oneof=admin teacher"`
}
