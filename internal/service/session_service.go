package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/repository"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type identityFetcher interface {
	Me(ctx context.Context) (*models.User, error)
}

// SessionService owns the process-wide session. The token lives in durable
// storage and is read on every call; the resolved identity lives in memory.
type SessionService struct {
	store   keyValueStore
	fetcher identityFetcher
	logger  *zap.Logger

	mu        sync.Mutex
	user      *models.User
	loading   bool
	lastErr   error
	validated string
	checked   bool
	cycle     uint64
	// gen drops validation results that finished after a logout or a newer validation.
	gen uint64

	subscribers listeners[models.Session]
}

// NewSessionService constructs a SessionService. Identity is unknown (loading)
// until Init or EnsureValidated runs.
func NewSessionService(store keyValueStore, fetcher identityFetcher, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{store: store, fetcher: fetcher, logger: logger, loading: true}
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, repository.KeyToken)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return "", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read token")
	}
	return token, nil
}

// Init resolves the session at process start.
func (s *SessionService) Init(ctx context.Context) error {
	return s.EnsureValidated(ctx)
}

// EnsureValidated re-validates only when the stored token differs from the
// last one validated.
func (s *SessionService) EnsureValidated(ctx context.Context) error {
	token, err := s.Token(ctx)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("failed to read stored token", zap.Error(err))
		s.publish()
		return err
	}

	s.mu.Lock()
	if s.checked && token == s.validated {
		s.mu.Unlock()
		return nil
	}
	if token == "" {
		s.checked = true
		s.validated = ""
		s.user = nil
		s.loading = false
		s.mu.Unlock()
		s.logger.Debug("no stored token, session unauthenticated")
		s.publish()
		return nil
	}
	s.mu.Unlock()

	s.validate(ctx, token)
	return nil
}

func (s *SessionService) validate(ctx context.Context, token string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.cycle++
	s.checked = true
	s.validated = token
	s.loading = true
	s.mu.Unlock()
	s.publish()

	user, err := s.fetcher.Me(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("dropping stale session validation")
		return
	}
	s.loading = false
	if err != nil {
		s.user = nil
		s.lastErr = err
	} else {
		s.user = user
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("session validation failed", zap.Error(err))
	} else {
		s.logger.Debug("session validated", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	}
	s.publish()
}

// Login stores token durably, sets user in memory, then re-validates because
// the token changed.
func (s *SessionService) Login(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "token is required")
	}
	if err := s.store.Set(ctx, repository.KeyToken, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store token")
	}

	s.mu.Lock()
	if user != nil {
		u := *user
		s.user = &u
	}
	s.lastErr = nil
	s.mu.Unlock()
	s.publish()

	return s.EnsureValidated(ctx)
}

// Logout removes the stored token and clears the in-memory identity.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, repository.KeyToken); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove token")
	}

	s.mu.Lock()
	s.gen++
	s.user = nil
	s.lastErr = nil
	s.validated = ""
	s.checked = true
	s.loading = false
	s.mu.Unlock()

	s.logger.Debug("session cleared")
	s.publish()
	return nil
}

// Snapshot returns the current session view.
func (s *SessionService) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() models.Session {
	snap := models.Session{Token: s.validated, Loading: s.loading, Err: s.lastErr, Cycle: s.cycle}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// CurrentUser returns the validated user, if any.
func (s *SessionService) CurrentUser() (*models.User, bool) {
	snap := s.Snapshot()
	return snap.User, snap.User != nil
}

// Subscribe registers fn for session changes and returns an unsubscribe func.
func (s *SessionService) Subscribe(fn func(models.Session)) func() {
	return s.subscribers.add(fn)
}

func (s *SessionService) publish() {
	s.subscribers.emit(s.Snapshot())
}

// TokenExpiry reads the exp claim of the stored token without verifying it.
// The result is for display only.
func (s *SessionService) TokenExpiry(ctx context.Context) (time.Time, bool, error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false, err
	}
	claims := &models.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, nil
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}
