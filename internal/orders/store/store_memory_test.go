package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alex-byteai/bola-security-demo/internal/orders/models"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// The store depends only on the models package; it must satisfy its own
// OrderStore port without reaching back into the handler package.
var _ OrderStore = (*MemoryOrderStore)(nil)

func TestSeededStoreOwnership(t *testing.T) {
	s := NewSeededOrderStore()
	ctx := t.Context()

	ownerID, found, err := s.OwnerOf(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), ownerID)

	_, found, err = s.OwnerOf(ctx, 999)
	require.NoError(t, err)
	require.False(t, found)
}

func TestListByUserExcludesForeignOrders(t *testing.T) {
	s := NewSeededOrderStore()

	owned, err := s.ListByUser(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	for _, order := range owned {
		require.Equal(t, int64(1), order.UserID)
	}
}

func TestCreateDefaultsAndGet(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := t.Context()

	created, err := s.Create(ctx, models.Order{UserID: 7, Product: "Monitor", Amount: 350})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, created.Status)
	require.False(t, created.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := t.Context()

	created, err := s.Create(ctx, models.Order{UserID: 7, Product: "Desk", Amount: 120})
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(ctx, created.ID, models.StatusShipped))
	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusShipped, got.Status)

	require.NoError(t, s.Delete(ctx, created.ID))
	err = s.Delete(ctx, created.ID)
	require.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}
