// Package appstate stores the application state container (session and
// preferences) in the app: namespace of a domain.KVStore.
package appstate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"eventmaster/internal/domain"
)

const (
	SessionKey     = domain.AppStatePrefix + "session"
	PreferencesKey = domain.AppStatePrefix + "preferences"
)

type repository struct {
	kv     domain.KVStore
	logger *slog.Logger
}

// NewRepository returns a domain.AppStateRepository backed by kv.
func NewRepository(kv domain.KVStore, logger *slog.Logger) domain.AppStateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &repository{kv: kv, logger: logger}
}

// LoadSession returns the stored session, or an unauthenticated one when none is stored.
func (r *repository) LoadSession(ctx context.Context) (*domain.Session, error) {
	s := &domain.Session{}
	if err := r.load(ctx, SessionKey, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repository) SaveSession(ctx context.Context, s *domain.Session) error {
	return r.save(ctx, SessionKey, s)
}

func (r *repository) ClearSession(ctx context.Context) error {
	if err := r.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// LoadPreferences returns stored preferences; the theme defaults to light.
func (r *repository) LoadPreferences(ctx context.Context) (*domain.Preferences, error) {
	p := &domain.Preferences{}
	if err := r.load(ctx, PreferencesKey, p); err != nil {
		return nil, err
	}
	if p.Theme != domain.ThemeDark {
		p.Theme = domain.ThemeLight
	}
	return p, nil
}

func (r *repository) SavePreferences(ctx context.Context, p *domain.Preferences) error {
	return r.save(ctx, PreferencesKey, p)
}

// load decodes key into dst. A missing or corrupt value leaves dst untouched.
func (r *repository) load(ctx context.Context, key string, dst any) error {
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		r.logger.WarnContext(ctx, "corrupt app state, using defaults", "key", key, "err", err)
	}
	return nil
}

func (r *repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
