package authz

import (
	"context"

	"github.com/Alex-byteai/bola-security-demo/internal/domain"
)

// OwnerLookup resolves the owner of a resource. Implementations are backed by
// storage; the engine only requires this contract.
//
// found=false means the resource does not exist. A non-nil error means the
// lookup infrastructure failed and must never be interpreted as deny or
// not-found.
type OwnerLookup interface {
	LookupOwner(ctx context.Context, ref domain.ResourceRef) (ownerID int64, found bool, err error)
}

// OwnerLookupFunc adapts a function to the OwnerLookup interface.
type OwnerLookupFunc func(ctx context.Context, ref domain.ResourceRef) (int64, bool, error)

func (f OwnerLookupFunc) LookupOwner(ctx context.Context, ref domain.ResourceRef) (int64, bool, error) {
	return f(ctx, ref)
}
