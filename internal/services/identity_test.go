package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eventmaster/internal/adapters/auth"
	"eventmaster/internal/domain"
	"eventmaster/internal/repository/appstate"
	"eventmaster/internal/repository/memory"
)

func newIdentity(t *testing.T) domain.IdentityService {
	t.Helper()
	state := appstate.NewRepository(memory.NewKVStore(), testLogger)
	svc, err := NewIdentityService(state, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWT("secret"), Credentials{
		Email:       "Admin@EventMaster.com",
		Password:    "demo123",
		DisplayName: "Event Admin",
	}, time.Hour, testLogger)
	require.NoError(t, err)
	return svc
}

func TestIdentityService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newIdentity(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"correct pair", "admin@eventmaster.com", "demo123", false},
		{"email case and spaces", "  ADMIN@eventmaster.com ", "demo123", false},
		{"wrong password", "admin@eventmaster.com", "demo124", true},
		{"wrong email", "guest@eventmaster.com", "demo123", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, session, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.True(t, session.Authenticated)
			assert.Equal(t, "Event Admin", session.DisplayName)
		})
	}
}

func TestIdentityService_LogoutInvalidatesTokens(t *testing.T) {
	ctx := context.Background()
	svc := newIdentity(t)

	s, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated)

	token, _, err := svc.Login(ctx, "admin@eventmaster.com", "demo123")
	require.NoError(t, err)

	subject, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin@eventmaster.com", subject)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Verify(ctx, token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = svc.Verify(ctx, "garbage")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestNewIdentityService_RequiresCredentials(t *testing.T) {
	state := appstate.NewRepository(memory.NewKVStore(), testLogger)
	_, err := NewIdentityService(state, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWT("s"), Credentials{Email: "a@b.c"}, time.Hour, testLogger)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
