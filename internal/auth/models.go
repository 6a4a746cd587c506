// Package auth owns user accounts and credential verification. Login and
// registration are the only unauthenticated operations in the API.
package auth

import (
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
)

// User is the stored account record. PasswordHash is a bcrypt hash and never
// leaves this package.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         domain.Role
	CreatedAt    time.Time
}

// Subject converts the account into the identity attached to requests.
func (u User) Subject() domain.Subject {
	return domain.Subject{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Profile is the client-facing view of an account.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile strips credentials from the record.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
