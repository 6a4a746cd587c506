package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
	"github.com/Alex-byteai/bola-security-demo/internal/domain"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// MemoryUserStore is the in-process account store. Single node only; use the
// postgres store when more than one API process shares accounts.
type MemoryUserStore struct {
	mu     sync.RWMutex
	byID   map[int64]auth.User
	nextID int64
}

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:   make(map[int64]auth.User),
		nextID: 1,
	}
}

type seedUser struct {
	email    string
	name     string
	password string
	role     domain.Role
}

// NewSeededUserStore creates a store preloaded with the demo accounts. The
// three regular users own the seeded orders and payments; the admin account
// exercises the override path.
func NewSeededUserStore() (*MemoryUserStore, error) {
	s := NewMemoryUserStore()
	seeds := []seedUser{
		{email: "alice@example.com", name: "Alice Johnson", password: "password123", role: domain.RoleUser},
		{email: "bob@example.com", name: "Bob Smith", password: "password123", role: domain.RoleUser},
		{email: "charlie@example.com", name: "Charlie Brown", password: "password123", role: domain.RoleUser},
		{email: "admin@example.com", name: "Admin User", password: "admin123", role: domain.RoleAdmin},
	}
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if _, err := s.Create(context.Background(), auth.User{
			Email:        seed.email,
			Name:         seed.name,
			PasswordHash: string(hash),
			Role:         seed.role,
		}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id int64) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return auth.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.byID {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return auth.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
}

func (s *MemoryUserStore) List(ctx context.Context, limit, offset int) ([]auth.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]auth.User, 0, len(s.byID))
	for _, user := range s.byID {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return []auth.User{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, user auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return auth.User{}, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
	}

	user.ID = s.nextID
	s.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	s.byID[user.ID] = user
	return user, nil
}

func (s *MemoryUserStore) Update(ctx context.Context, id int64, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	for otherID, other := range s.byID {
		if otherID != id && strings.EqualFold(other.Email, email) {
			return dErrors.New(dErrors.CodeConflict, "email already registered")
		}
	}
	user.Name = name
	user.Email = email
	s.byID[id] = user
	return nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	delete(s.byID, id)
	return nil
}
