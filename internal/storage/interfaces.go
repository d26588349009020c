package storage

import (
	"context"

	"meme-token-dashboard/internal/domain"
)

// TokenStore provides access to tokens storage.
// Implementations must return identical results for the same data and filter.
type TokenStore interface {
	// List returns tokens matching every present criterion of f,
	// ordered by created_at DESC, id DESC.
	List(ctx context.Context, f domain.TokenFilter) ([]*domain.Token, error)

	// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.Token, error)

	// GetByAddress retrieves a token by its address. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.Token, error)

	// Insert assigns id and created_at and stores t. Returns ErrDuplicateKey if address exists.
	Insert(ctx context.Context, t *domain.Token) (*domain.Token, error)

	// Update merges p onto the stored token and returns the merged record.
	// Returns ErrNotFound if id does not exist.
	Update(ctx context.Context, id int64, p *domain.TokenPatch) (*domain.Token, error)
}

// AlertStore provides access to alerts storage.
type AlertStore interface {
	// List returns all alerts ordered by created_at DESC, id DESC.
	List(ctx context.Context) ([]*domain.Alert, error)

	// Insert assigns id and created_at and stores a.
	// Returns ErrInvalidReference if a.TokenID names an unknown token.
	Insert(ctx context.Context, a *domain.Alert) (*domain.Alert, error)

	// MarkRead sets is_read. Unknown ids are a no-op.
	MarkRead(ctx context.Context, id int64) error
}

// UserStore provides access to users storage.
type UserStore interface {
	// Insert stores a new user. Returns ErrDuplicateKey if username or email exists.
	Insert(ctx context.Context, in *domain.UserInput) (*domain.User, error)

	// GetByID retrieves a user by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Stores bundles one backend's implementations. The backend is chosen once
// at process start.
type Stores struct {
	Tokens TokenStore
	Alerts AlertStore
	Users  UserStore
}
