package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// AlertStore is an in-memory implementation of storage.AlertStore.
type AlertStore struct {
	mu     sync.RWMutex
	data   map[int64]*domain.Alert
	lastID int64
	tokens *TokenStore
	now    Clock
}

// NewAlertStore creates a new in-memory alert store. Token references are
// checked against tokens.
func NewAlertStore(tokens *TokenStore, now Clock) *AlertStore {
	if now == nil {
		now = time.Now
	}
	return &AlertStore{
		data:   make(map[int64]*domain.Alert),
		tokens: tokens,
		now:    now,
	}
}

// List returns all alerts, newest first.
func (s *AlertStore) List(_ context.Context) ([]*domain.Alert, error) {
	s.mu.RLock()
	result := make([]*domain.Alert, 0, len(s.data))
	for _, a := range s.data {
		result = append(result, cloneAlert(a))
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Insert stores a new alert. Returns ErrInvalidReference for an unknown token.
func (s *AlertStore) Insert(_ context.Context, a *domain.Alert) (*domain.Alert, error) {
	if a == nil {
		return nil, storage.ErrInvalidInput
	}
	if a.TokenID != nil && (s.tokens == nil || !s.tokens.Exists(*a.TokenID)) {
		return nil, storage.ErrInvalidReference
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	stored := cloneAlert(a)
	stored.ID = s.lastID
	stored.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	s.data[stored.ID] = stored
	return cloneAlert(stored), nil
}

// MarkRead flags the alert as read. Unknown ids are ignored.
func (s *AlertStore) MarkRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, exists := s.data[id]; exists {
		a.IsRead = true
	}
	return nil
}

func cloneAlert(a *domain.Alert) *domain.Alert {
	c := *a
	if a.TokenID != nil {
		id := *a.TokenID
		c.TokenID = &id
	}
	return &c
}

var _ storage.AlertStore = (*AlertStore)(nil)
