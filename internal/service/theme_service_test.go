package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/repository"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

func TestThemeDefaultsToLight(t *testing.T) {
	svc := NewThemeService(newMemStore(nil), nil)
	mode, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, mode)
}

func TestThemeToggleAndPersist(t *testing.T) {
	store := newMemStore(nil)
	svc := NewThemeService(store, nil)
	ctx := context.Background()

	mode, err := svc.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, mode)
	stored, _ := store.value(repository.KeyThemeMode)
	assert.Equal(t, "dark", stored)

	mode, err = svc.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, mode)
}

func TestThemeIgnoresUnknownStoredValue(t *testing.T) {
	svc := NewThemeService(newMemStore(map[string]string{repository.KeyThemeMode: "sepia"}), nil)
	mode, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, mode)
}

func TestThemeRejectsUnknownMode(t *testing.T) {
	svc := NewThemeService(newMemStore(nil), nil)
	err := svc.Set(context.Background(), models.ThemeMode("neon"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
