// Package users manages patient and administrator accounts.
package users

import (
	"strings"
	"time"
)

// Roles a user account can hold. Role gates the chat command grammar and the
// admin REST surface.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserParams carries the fields needed to insert a new account.
type CreateUserParams struct {
	Email        string
	Name         string
	Phone        string
	Role         string
	PasswordHash string
}

// Validate checks required fields and normalizes the email.
func (p *CreateUserParams) Validate() error {
	p.Email = NormalizeEmail(p.Email)
	if p.Email == "" {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.Role != RoleUser && p.Role != RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address the way the storage
// layer expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
