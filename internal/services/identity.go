package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmaster/internal/domain"
)

// Credentials is the single operator account accepted by the identity gate.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
}

// TokenCodec issues and parses operator tokens.
type TokenCodec interface {
	domain.TokenIssuer
	domain.TokenParser
}

type identityService struct {
	state       domain.AppStateRepository
	hasher      domain.PasswordHasher
	tokens      TokenCodec
	email       string
	displayName string
	salt        string
	hash        string
	tokenExpiry time.Duration
	logger      *slog.Logger
	now         clock
}

// NewIdentityService hashes the configured password once so logins compare
// against a bcrypt hash rather than the plain text.
func NewIdentityService(state domain.AppStateRepository, hasher domain.PasswordHasher, tokens TokenCodec, creds Credentials, tokenExpiry time.Duration, logger *slog.Logger) (domain.IdentityService, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: operator email and password are required", domain.ErrInvalidInput)
	}
	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(salt, creds.Password)
	if err != nil {
		return nil, err
	}
	return &identityService{
		state:       state,
		hasher:      hasher,
		tokens:      tokens,
		email:       email,
		displayName: creds.DisplayName,
		salt:        salt,
		hash:        hash,
		tokenExpiry: tokenExpiry,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (s *identityService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(s.email)) == 1
	passErr := s.hasher.Compare(s.hash, s.salt, password)
	if !emailOK || passErr != nil {
		s.logger.WarnContext(ctx, "login rejected", "email", email)
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	now := s.now()
	session := &domain.Session{
		Authenticated: true,
		Email:         s.email,
		DisplayName:   s.displayName,
		LoggedInAt:    &now,
	}
	if err := s.state.SaveSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}
	token, err := s.tokens.Issue(s.email, s.displayName, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, session, nil
}

// Logout clears the stored session. Tokens issued before stop verifying.
func (s *identityService) Logout(ctx context.Context) error {
	if err := s.state.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *identityService) Session(ctx context.Context) (*domain.Session, error) {
	session, err := s.state.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

// Verify accepts token only while the stored session is authenticated for its subject.
func (s *identityService) Verify(ctx context.Context, token string) (string, error) {
	subject, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	if !session.Authenticated || session.Email != subject {
		return "", fmt.Errorf("%w: session ended", domain.ErrUnauthorized)
	}
	return subject, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
