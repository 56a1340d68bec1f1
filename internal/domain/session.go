package domain

import (
	"context"
	"time"
)

// Session is the persisted identity gate state. There is a single operator.
// swagger:model Session
type Session struct {
	Authenticated bool       `json:"authenticated"`
	Email         string     `json:"email,omitempty"`
	DisplayName   string     `json:"displayName,omitempty"`
	LoggedInAt    *time.Time `json:"loggedInAt,omitempty"`
}

// Theme is the display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences holds operator display preferences.
// swagger:model Preferences
type Preferences struct {
	Theme Theme `json:"theme"`
}

// AppStateRepository persists the application state container, kept apart from entity collections.
type AppStateRepository interface {
	LoadSession(ctx context.Context) (*Session, error)
	SaveSession(ctx context.Context, s *Session) error
	ClearSession(ctx context.Context) error
	LoadPreferences(ctx context.Context) (*Preferences, error)
	SavePreferences(ctx context.Context, p *Preferences) error
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed tokens for the operator.
type TokenIssuer interface {
	Issue(subject, name string, expiry time.Duration) (string, error)
}

// TokenParser validates a token and returns its subject.
type TokenParser interface {
	Parse(token string) (subject string, err error)
}

// TokenVerifier verifies a bearer token against the current session.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}

// IdentityService is the single-credential login gate.
type IdentityService interface {
	TokenVerifier
	Login(ctx context.Context, email, password string) (token string, session *Session, err error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*Session, error)
}

// PreferencesService reads and updates display preferences.
type PreferencesService interface {
	Get(ctx context.Context) (*Preferences, error)
	SetTheme(ctx context.Context, theme Theme) (*Preferences, error)
	ToggleTheme(ctx context.Context) (*Preferences, error)
}
