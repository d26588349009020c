package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// UserStore implements storage.UserStore using PostgreSQL.
type UserStore struct {
	pool *Pool
}

// NewUserStore creates a new UserStore.
func NewUserStore(pool *Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

const userColumns = `id, username, email, password_hash, created_at`

// Insert stores a new user. Returns ErrDuplicateKey if username or email exists.
func (s *UserStore) Insert(ctx context.Context, in *domain.UserInput) (u *domain.User, err error) {
	start := time.Now()
	defer func() { observe("users.insert", start, err) }()

	if in == nil || in.Username == "" || in.Email == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err = scanUser(s.pool.QueryRow(ctx, query, in.Username, in.Email, in.PasswordHash))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, storage.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by its ID. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(ctx context.Context, id int64) (u *domain.User, err error) {
	start := time.Now()
	defer func() { observe("users.get_by_id", start, err) }()

	u, err = scanUser(s.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByUsername retrieves a user by username. Returns ErrNotFound if not exists.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (u *domain.User, err error) {
	start := time.Now()
	defer func() { observe("users.get_by_username", start, err) }()

	u, err = scanUser(s.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
