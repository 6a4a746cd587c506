// Package store persists orders. Lookups never filter by owner; ownership is
// decided by the authorization engine so that denied and absent resources can
// be told apart internally while staying indistinguishable on the wire.
package store

import (
	"context"

	"github.com/Alex-byteai/bola-security-demo/internal/orders/models"
)

// OrderStore is the persistence port for orders.
type OrderStore interface {
	// GetByID returns the order regardless of owner, or CodeNotFound.
	GetByID(ctx context.Context, id int64) (models.Order, error)
	// OwnerOf returns the owning user ID, or found=false when the order
	// does not exist.
	OwnerOf(ctx context.Context, id int64) (ownerID int64, found bool, err error)
	// ListByUser returns all orders owned by userID, oldest first.
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	// Create inserts the order and returns it with the assigned ID.
	Create(ctx context.Context, order models.Order) (models.Order, error)
	// UpdateStatus sets the lifecycle state or returns CodeNotFound.
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	// Delete removes the order or returns CodeNotFound.
	Delete(ctx context.Context, id int64) error
}
