package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// AlertStore implements storage.AlertStore using PostgreSQL.
type AlertStore struct {
	pool *Pool
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(pool *Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertStore = (*AlertStore)(nil)

const alertColumns = `id, token_id, type, title, message, is_read, created_at`

// List returns all alerts, newest first.
func (s *AlertStore) List(ctx context.Context) (alerts []*domain.Alert, err error) {
	start := time.Now()
	defer func() { observe("alerts.list", start, err) }()

	rows, err := s.pool.Query(ctx, "SELECT "+alertColumns+" FROM alerts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	alerts = make([]*domain.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// Insert stores a new alert. Returns ErrInvalidReference for an unknown token.
func (s *AlertStore) Insert(ctx context.Context, a *domain.Alert) (created *domain.Alert, err error) {
	start := time.Now()
	defer func() { observe("alerts.insert", start, err) }()

	if a == nil {
		return nil, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO alerts (token_id, type, title, message, is_read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + alertColumns

	created, err = scanAlert(s.pool.QueryRow(ctx, query,
		a.TokenID,
		string(a.Type),
		a.Title,
		a.Message,
		a.IsRead,
	))
	if err != nil {
		if isForeignKeyError(err) {
			return nil, storage.ErrInvalidReference
		}
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	return created, nil
}

// MarkRead flags the alert as read. Unknown ids are ignored.
func (s *AlertStore) MarkRead(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe("alerts.mark_read", start, err) }()

	if _, err := s.pool.Exec(ctx, "UPDATE alerts SET is_read = TRUE WHERE id = $1", id); err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}

// scanAlert scans a single row into Alert.
func scanAlert(row pgx.Row) (*domain.Alert, error) {
	var (
		a         domain.Alert
		alertType string
	)

	err := row.Scan(
		&a.ID,
		&a.TokenID,
		&alertType,
		&a.Title,
		&a.Message,
		&a.IsRead,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Type = domain.AlertType(alertType)
	a.CreatedAt = a.CreatedAt.UTC()

	return &a, nil
}
