package services

import (
	"context"
	"fmt"
	"sync"

	"eventmaster/internal/domain"
)

type preferencesService struct {
	state domain.AppStateRepository
	mu    sync.Mutex
}

// NewPreferencesService creates a PreferencesService on the app state container.
func NewPreferencesService(state domain.AppStateRepository) domain.PreferencesService {
	return &preferencesService{state: state}
}

func (s *preferencesService) Get(ctx context.Context) (*domain.Preferences, error) {
	p, err := s.state.LoadPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

func (s *preferencesService) SetTheme(ctx context.Context, theme domain.Theme) (*domain.Preferences, error) {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return nil, fmt.Errorf("%w: theme must be light or dark", domain.ErrInvalidInput)
	}
	return s.update(ctx, func(p *domain.Preferences) { p.Theme = theme })
}

func (s *preferencesService) ToggleTheme(ctx context.Context) (*domain.Preferences, error) {
	return s.update(ctx, func(p *domain.Preferences) {
		if p.Theme == domain.ThemeDark {
			p.Theme = domain.ThemeLight
		} else {
			p.Theme = domain.ThemeDark
		}
	})
}

func (s *preferencesService) update(ctx context.Context, fn func(*domain.Preferences)) (*domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := s.state.SavePreferences(ctx, p); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}
