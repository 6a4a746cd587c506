package authz

import (
	"context"
	"fmt"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
)

// OwnerResolver is the slice of a resource store the lookup needs.
type OwnerResolver interface {
	OwnerOf(ctx context.Context, id int64) (ownerID int64, found bool, err error)
}

// ResourceLookup routes owner lookups to the store owning each resource
// type. The user type never reaches it; the engine resolves user ownership
// reflexively.
type ResourceLookup struct {
	orders   OwnerResolver
	payments OwnerResolver
}

func NewResourceLookup(orders, payments OwnerResolver) *ResourceLookup {
	return &ResourceLookup{orders: orders, payments: payments}
}

func (l *ResourceLookup) LookupOwner(ctx context.Context, ref domain.ResourceRef) (int64, bool, error) {
	switch ref.Type {
	case domain.ResourceOrder:
		return l.orders.OwnerOf(ctx, ref.ID)
	case domain.ResourcePayment:
		return l.payments.OwnerOf(ctx, ref.ID)
	default:
		return 0, false, fmt.Errorf("no owner lookup for resource type %q", ref.Type)
	}
}
