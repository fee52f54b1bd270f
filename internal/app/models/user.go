package models

import (
	"time"
)

// User is a staff account of the registration office
type User struct {
	ID                 int64      `json:"id" db:"id" example:"1"`
	Username           string     `json:"username" db:"username" example:"secretariat"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	Role               RoleType   `json:"role" db:"role" example:"secretary"`
	MustChangePassword bool       `json:"mustChangePassword" db:"must_change_password"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
