package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/payments/models"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// MemoryPaymentStore is the in-process payment store.
type MemoryPaymentStore struct {
	mu     sync.RWMutex
	byID   map[int64]models.Payment
	nextID int64
}

func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{
		byID:   make(map[int64]models.Payment),
		nextID: 1,
	}
}

// NewSeededPaymentStore preloads one payment per demo user, matching the
// seeded orders.
func NewSeededPaymentStore() *MemoryPaymentStore {
	s := NewMemoryPaymentStore()
	seeds := []models.Payment{
		{UserID: 1, OrderID: 1, Amount: 1899.99, BankAccount: "****1234", RoutingNumber: "021000021", Status: models.StatusCompleted},
		{UserID: 2, OrderID: 3, Amount: 1299.99, BankAccount: "****5678", RoutingNumber: "021000022", Status: models.StatusPending},
		{UserID: 3, OrderID: 5, Amount: 999.99, BankAccount: "****9012", RoutingNumber: "021000023", Status: models.StatusCompleted},
	}
	for _, seed := range seeds {
		s.Create(context.Background(), seed)
	}
	return s
}

func (s *MemoryPaymentStore) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, ok := s.byID[id]
	if !ok {
		return models.Payment{}, dErrors.New(dErrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}

func (s *MemoryPaymentStore) OwnerOf(ctx context.Context, id int64) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, ok := s.byID[id]
	if !ok {
		return 0, false, nil
	}
	return payment.UserID, true, nil
}

func (s *MemoryPaymentStore) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]models.Payment, 0, 2)
	for _, payment := range s.byID {
		if payment.UserID == userID {
			owned = append(owned, payment)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return owned, nil
}

func (s *MemoryPaymentStore) ListAll(ctx context.Context, limit, offset int) ([]models.Payment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Payment, 0, len(s.byID))
	for _, payment := range s.byID {
		all = append(all, payment)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return []models.Payment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *MemoryPaymentStore) Create(ctx context.Context, payment models.Payment) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment.ID = s.nextID
	s.nextID++
	if payment.Status == "" {
		payment.Status = models.StatusPending
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	s.byID[payment.ID] = payment
	return payment, nil
}
