package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu        sync.RWMutex
	data      map[int64]*domain.Token // keyed by id
	order     []int64                 // insertion order
	byAddress map[string]int64        // address -> id (unique)
	lastID    int64
	now       Clock
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore(now Clock) *TokenStore {
	if now == nil {
		now = time.Now
	}
	return &TokenStore{
		data:      make(map[int64]*domain.Token),
		byAddress: make(map[string]int64),
		now:       now,
	}
}

// List returns tokens matching f, newest first.
func (s *TokenStore) List(_ context.Context, f domain.TokenFilter) ([]*domain.Token, error) {
	f = f.Normalize()

	s.mu.RLock()
	result := make([]*domain.Token, 0, len(s.order))
	for _, id := range s.order {
		t := s.data[id]
		if f.Matches(t) {
			result = append(result, cloneToken(t))
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(result)
	return result, nil
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(_ context.Context, id int64) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return cloneToken(t), nil
}

// GetByAddress retrieves a token by its address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(_ context.Context, address string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byAddress[address]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return cloneToken(s.data[id]), nil
}

// Insert assigns the next id and created_at. Ids are never reused.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) (*domain.Token, error) {
	if t == nil || t.Address == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byAddress[t.Address]; exists {
		return nil, storage.ErrDuplicateKey
	}

	s.lastID++
	stored := cloneToken(t)
	stored.ID = s.lastID
	// Postgres keeps microseconds; match it so both backends order identically.
	stored.CreatedAt = s.now().UTC().Truncate(time.Microsecond)

	s.data[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	s.byAddress[stored.Address] = stored.ID
	return cloneToken(stored), nil
}

// Update merges p onto the stored token. Returns ErrNotFound if id does not exist.
func (s *TokenStore) Update(_ context.Context, id int64, p *domain.TokenPatch) (*domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	if p == nil || p.IsEmpty() {
		return cloneToken(current), nil
	}

	updated := cloneToken(current)
	p.Apply(updated)

	if updated.Address != current.Address {
		if _, taken := s.byAddress[updated.Address]; taken {
			return nil, storage.ErrDuplicateKey
		}
		delete(s.byAddress, current.Address)
		s.byAddress[updated.Address] = id
	}

	s.data[id] = updated
	return cloneToken(updated), nil
}

// Exists reports whether a token with id is stored.
func (s *TokenStore) Exists(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[id]
	return ok
}

func cloneToken(t *domain.Token) *domain.Token {
	c := *t
	if t.SocialLinks != nil {
		links := *t.SocialLinks
		c.SocialLinks = &links
	}
	return &c
}

// sortNewestFirst orders by created_at DESC, id DESC.
func sortNewestFirst(tokens []*domain.Token) {
	sort.Slice(tokens, func(i, j int) bool {
		if !tokens[i].CreatedAt.Equal(tokens[j].CreatedAt) {
			return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
		}
		return tokens[i].ID > tokens[j].ID
	})
}

var _ storage.TokenStore = (*TokenStore)(nil)
