package models

import "strings"

// User mirrors the users table. PasswordHash never leaves the service layer.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Role         string  `json:"role"`
	Language     *string `json:"language"`
	Currency     *string `json:"currency"`
	CreatedAt    string  `json:"created_at"`
	PasswordHash *string `json:"-"`
}

const (
	DefaultUserName = "User"
	DefaultUserRole = "customer"
)

// Prepare normalizes user input before it is written.
func (u *User) Prepare() {
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		u.Name = DefaultUserName
	}
	if u.Role == "" {
		u.Role = DefaultUserRole
	}
}
