package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/appstate"
	"eventmaster/internal/repository/memory"
)

func TestPreferencesService_Theme(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferencesService(appstate.NewRepository(memory.NewKVStore(), testLogger))

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, p.Theme)

	p, err = svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, p.Theme)

	p, err = svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, p.Theme)

	p, err = svc.SetTheme(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, p.Theme)

	_, err = svc.SetTheme(ctx, "sepia")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	p, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, p.Theme)
}
