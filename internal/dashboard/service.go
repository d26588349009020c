// Package dashboard implements the token dashboard operations on top of a
// storage backend: validation, uniqueness and reference checks, statistics.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/observability"
	"meme-token-dashboard/internal/storage"
)

// AlertNotifier receives every alert after it is stored.
type AlertNotifier interface {
	AlertCreated(a *domain.Alert)
}

// Service is the backend-agnostic dashboard core. It only sees the storage
// interfaces, never a concrete backend.
type Service struct {
	stores   storage.Stores
	logger   *zap.Logger
	notifier AlertNotifier
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAlertNotifier registers n to be told about newly created alerts.
func WithAlertNotifier(n AlertNotifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// NewService creates a Service over stores.
func NewService(stores storage.Stores, opts ...Option) *Service {
	s := &Service{
		stores: stores,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("dashboard")
	return s
}

// ListTokens returns tokens matching f, newest first.
func (s *Service) ListTokens(ctx context.Context, f domain.TokenFilter) ([]*domain.Token, error) {
	tokens, err := s.stores.Tokens.List(ctx, f)
	if err != nil {
		return nil, s.storageError("list tokens", err)
	}
	return tokens, nil
}

// GetToken returns the token with id or storage.ErrNotFound.
func (s *Service) GetToken(ctx context.Context, id int64) (*domain.Token, error) {
	t, err := s.stores.Tokens.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, s.storageError("get token", err)
	}
	return t, nil
}

// CreateToken validates in, rejects a taken address and stores the token.
func (s *Service) CreateToken(ctx context.Context, in *domain.TokenInput) (*domain.Token, error) {
	if in == nil {
		in = &domain.TokenInput{}
	}
	if err := domain.ValidateTokenInput(in); err != nil {
		observability.RecordValidationFailure("token")
		return nil, err
	}
	if err := s.checkAddressFree(ctx, in.Address, 0); err != nil {
		return nil, err
	}

	t := in.Build()
	created, err := s.stores.Tokens.Insert(ctx, &t)
	if err != nil {
		return nil, s.storageError("insert token", err)
	}

	observability.RecordTokenCreated()
	s.logger.Info("token created",
		zap.Int64("id", created.ID),
		zap.String("symbol", created.Symbol),
		zap.String("platform", created.Platform))
	return created, nil
}

// UpdateToken validates p and merges it onto the token with id.
func (s *Service) UpdateToken(ctx context.Context, id int64, p *domain.TokenPatch) (*domain.Token, error) {
	if p == nil {
		p = &domain.TokenPatch{}
	}
	if err := domain.ValidateTokenPatch(p); err != nil {
		observability.RecordValidationFailure("token")
		return nil, err
	}
	if p.Address != nil {
		if err := s.checkAddressFree(ctx, *p.Address, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.stores.Tokens.Update(ctx, id, p)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, s.storageError("update token", err)
	}

	observability.RecordTokenUpdated()
	return updated, nil
}

// checkAddressFree fails with a validation error when address belongs to a
// token other than self.
func (s *Service) checkAddressFree(ctx context.Context, address string, self int64) error {
	existing, err := s.stores.Tokens.GetByAddress(ctx, address)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case err != nil:
		return s.storageError("get token by address", err)
	case existing.ID == self:
		return nil
	}
	observability.RecordValidationFailure("token")
	return domain.NewValidationError("address", "a token with this address already exists")
}

// ListAlerts returns all alerts, newest first.
func (s *Service) ListAlerts(ctx context.Context) ([]*domain.Alert, error) {
	alerts, err := s.stores.Alerts.List(ctx)
	if err != nil {
		return nil, s.storageError("list alerts", err)
	}
	return alerts, nil
}

// CreateAlert validates in and stores the alert. A tokenId must reference an
// existing token.
func (s *Service) CreateAlert(ctx context.Context, in *domain.AlertInput) (*domain.Alert, error) {
	if in == nil {
		in = &domain.AlertInput{}
	}
	if err := domain.ValidateAlertInput(in); err != nil {
		observability.RecordValidationFailure("alert")
		return nil, err
	}

	a := in.Build()
	created, err := s.stores.Alerts.Insert(ctx, &a)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			observability.RecordValidationFailure("alert")
			return nil, domain.NewValidationError("tokenId", "references an unknown token")
		}
		return nil, s.storageError("insert alert", err)
	}

	observability.RecordAlertCreated(string(created.Type))
	if s.notifier != nil {
		s.notifier.AlertCreated(created)
	}
	return created, nil
}

// MarkAlertRead flags the alert as read. Unknown ids are not an error.
func (s *Service) MarkAlertRead(ctx context.Context, id int64) error {
	if err := s.stores.Alerts.MarkRead(ctx, id); err != nil {
		return s.storageError("mark alert read", err)
	}
	observability.RecordAlertMarkedRead()
	return nil
}

// Stats recomputes aggregate statistics over the full token set.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	tokens, err := s.stores.Tokens.List(ctx, domain.TokenFilter{})
	if err != nil {
		return domain.Stats{}, s.storageError("list tokens for stats", err)
	}
	return domain.ComputeStats(tokens), nil
}

// CreateUser validates in and stores the user.
func (s *Service) CreateUser(ctx context.Context, in *domain.UserInput) (*domain.User, error) {
	if in == nil {
		in = &domain.UserInput{}
	}
	if err := domain.ValidateUserInput(in); err != nil {
		observability.RecordValidationFailure("user")
		return nil, err
	}

	_, err := s.stores.Users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, domain.NewValidationError("username", "is already taken")
	case !errors.Is(err, storage.ErrNotFound):
		return nil, s.storageError("get user by username", err)
	}

	u, err := s.stores.Users.Insert(ctx, in)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, domain.NewValidationError("email", "is already registered")
		}
		return nil, s.storageError("insert user", err)
	}
	return u, nil
}

// GetUser returns the user with id or storage.ErrNotFound.
func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.stores.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, s.storageError("get user", err)
	}
	return u, nil
}

// GetUserByUsername returns the user named username or storage.ErrNotFound.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.stores.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, s.storageError("get user by username", err)
	}
	return u, nil
}

// storageError logs an unexpected backend failure and wraps it.
func (s *Service) storageError(op string, err error) error {
	s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
