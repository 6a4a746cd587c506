package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/orders/models"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// MemoryOrderStore is the in-process order store.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	byID   map[int64]models.Order
	nextID int64
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		byID:   make(map[int64]models.Order),
		nextID: 1,
	}
}

// NewSeededOrderStore preloads the demo orders: two for alice (user 1), two
// for bob (user 2), two for charlie (user 3). Order 3 belonging to bob is
// the canonical cross-user target in the demo walkthrough.
func NewSeededOrderStore() *MemoryOrderStore {
	s := NewMemoryOrderStore()
	seeds := []models.Order{
		{UserID: 1, Product: "Laptop Dell XPS 15", Amount: 1899.99, CreditCard: "**** **** **** 1234", Address: "123 Main St, Ciudad", Phone: "+51 999 888 777"},
		{UserID: 1, Product: "Mouse Logitech MX Master", Amount: 99.99, CreditCard: "**** **** **** 1234", Address: "123 Main St, Ciudad", Phone: "+51 999 888 777"},
		{UserID: 2, Product: "iPhone 15 Pro", Amount: 1299.99, CreditCard: "**** **** **** 5678", Address: "456 Oak Ave, Lima", Phone: "+51 987 654 321"},
		{UserID: 2, Product: "AirPods Pro", Amount: 249.99, CreditCard: "**** **** **** 5678", Address: "456 Oak Ave, Lima", Phone: "+51 987 654 321"},
		{UserID: 3, Product: "Samsung Galaxy S24", Amount: 999.99, CreditCard: "**** **** **** 9012", Address: "789 Pine Rd, Cusco", Phone: "+51 912 345 678"},
		{UserID: 3, Product: "PlayStation 5", Amount: 499.99, Status: models.StatusShipped, CreditCard: "**** **** **** 9012", Address: "789 Pine Rd, Cusco", Phone: "+51 912 345 678"},
	}
	for _, seed := range seeds {
		s.Create(context.Background(), seed)
	}
	return s
}

func (s *MemoryOrderStore) GetByID(ctx context.Context, id int64) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.byID[id]
	if !ok {
		return models.Order{}, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *MemoryOrderStore) OwnerOf(ctx context.Context, id int64) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.byID[id]
	if !ok {
		return 0, false, nil
	}
	return order.UserID, true, nil
}

func (s *MemoryOrderStore) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]models.Order, 0, 4)
	for _, order := range s.byID {
		if order.UserID == userID {
			owned = append(owned, order)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return owned, nil
}

func (s *MemoryOrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextID
	s.nextID++
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	s.byID[order.ID] = order
	return order, nil
}

func (s *MemoryOrderStore) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	order.Status = status
	s.byID[id] = order
	return nil
}

func (s *MemoryOrderStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	delete(s.byID, id)
	return nil
}
