package memory

import (
	"context"
	"sync"
	"time"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// UserStore is an in-memory implementation of storage.UserStore.
type UserStore struct {
	mu         sync.RWMutex
	data       map[int64]*domain.User
	byUsername map[string]int64
	byEmail    map[string]int64
	lastID     int64
	now        Clock
}

// NewUserStore creates a new in-memory user store.
func NewUserStore(now Clock) *UserStore {
	if now == nil {
		now = time.Now
	}
	return &UserStore{
		data:       make(map[int64]*domain.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
		now:        now,
	}
}

// Insert stores a new user. Returns ErrDuplicateKey if username or email exists.
func (s *UserStore) Insert(_ context.Context, in *domain.UserInput) (*domain.User, error) {
	if in == nil || in.Username == "" || in.Email == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[in.Username]; exists {
		return nil, storage.ErrDuplicateKey
	}
	if _, exists := s.byEmail[in.Email]; exists {
		return nil, storage.ErrDuplicateKey
	}

	s.lastID++
	u := &domain.User{
		ID:           s.lastID,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	s.data[u.ID] = u
	s.byUsername[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID

	userCopy := *u
	return &userCopy, nil
}

// GetByID retrieves a user by its ID. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byUsername[username]
	if !exists {
		return nil, storage.ErrNotFound
	}
	userCopy := *s.data[id]
	return &userCopy, nil
}

var _ storage.UserStore = (*UserStore)(nil)
