package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/repository"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// ThemeService persists the colour scheme preference.
type ThemeService struct {
	store  keyValueStore
	logger *zap.Logger
}

// NewThemeService constructs a ThemeService.
func NewThemeService(store keyValueStore, logger *zap.Logger) *ThemeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeService{store: store, logger: logger}
}

// Get returns the stored mode, falling back to light.
func (s *ThemeService) Get(ctx context.Context) (models.ThemeMode, error) {
	raw, err := s.store.Get(ctx, repository.KeyThemeMode)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return models.ThemeLight, nil
		}
		return models.ThemeLight, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read theme")
	}
	mode := models.ThemeMode(raw)
	if mode != models.ThemeLight && mode != models.ThemeDark {
		s.logger.Warn("ignoring unknown theme mode", zap.String("mode", raw))
		return models.ThemeLight, nil
	}
	return mode, nil
}

// Set stores mode.
func (s *ThemeService) Set(ctx context.Context, mode models.ThemeMode) error {
	if mode != models.ThemeLight && mode != models.ThemeDark {
		return appErrors.Validation("invalid theme", map[string]string{"mode": "mode must be one of light dark"})
	}
	if err := s.store.Set(ctx, repository.KeyThemeMode, string(mode)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store theme")
	}
	return nil
}

// Toggle flips and stores the mode, returning the new value.
func (s *ThemeService) Toggle(ctx context.Context) (models.ThemeMode, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := s.Set(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}
