// Package store persists payments. Like the order store, lookups ignore
// ownership; the authorization engine decides who may see what.
package store

import (
	"context"

	"github.com/Alex-byteai/bola-security-demo/internal/payments/models"
)

// PaymentStore is the persistence port for payments.
type PaymentStore interface {
	// GetByID returns the payment regardless of owner, or CodeNotFound.
	GetByID(ctx context.Context, id int64) (models.Payment, error)
	// OwnerOf returns the owning user ID, or found=false when the payment
	// does not exist.
	OwnerOf(ctx context.Context, id int64) (ownerID int64, found bool, err error)
	// ListByUser returns all payments owned by userID, oldest first.
	ListByUser(ctx context.Context, userID int64) ([]models.Payment, error)
	// ListAll returns one page of payments across all users plus the total.
	ListAll(ctx context.Context, limit, offset int) ([]models.Payment, int, error)
	// Create inserts the payment and returns it with the assigned ID.
	Create(ctx context.Context, payment models.Payment) (models.Payment, error)
}
