// Package store persists user accounts. The memory implementation ships
// seeded demo accounts; the postgres implementation backs multi-process
// deployments.
package store

import (
	"context"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
)

// UserStore is the persistence port for accounts.
type UserStore interface {
	// GetByID returns the account or CodeNotFound.
	GetByID(ctx context.Context, id int64) (auth.User, error)
	// GetByEmail returns the account or CodeNotFound.
	GetByEmail(ctx context.Context, email string) (auth.User, error)
	// List returns one page of accounts plus the total count.
	List(ctx context.Context, limit, offset int) ([]auth.User, int, error)
	// Create inserts the account and returns it with the assigned ID.
	// Duplicate email yields CodeConflict.
	Create(ctx context.Context, user auth.User) (auth.User, error)
	// Update changes name and email. Duplicate email yields CodeConflict,
	// missing account CodeNotFound.
	Update(ctx context.Context, id int64, name, email string) error
	// Delete removes the account or returns CodeNotFound.
	Delete(ctx context.Context, id int64) error
}
