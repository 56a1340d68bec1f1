package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventmaster/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdentityService implements domain.IdentityService for handler tests.
type fakeIdentityService struct {
	loginErr   error
	logoutErr  error
	session    *domain.Session
	lastEmail  string
	logoutCall int
}

func (f *fakeIdentityService) Verify(context.Context, string) (string, error) {
	return "", domain.ErrUnauthorized
}

func (f *fakeIdentityService) Login(_ context.Context, email, _ string) (string, *domain.Session, error) {
	f.lastEmail = email
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	return "signed-token", &domain.Session{Authenticated: true, Email: email, DisplayName: "Event Admin", LoggedInAt: &now}, nil
}

func (f *fakeIdentityService) Logout(context.Context) error {
	f.logoutCall++
	return f.logoutErr
}

func (f *fakeIdentityService) Session(context.Context) (*domain.Session, error) {
	if f.session == nil {
		return &domain.Session{}, nil
	}
	return f.session, nil
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{name: "success", body: `{"email":"admin@eventmaster.com","password":"demo123"}`, wantStatus: http.StatusOK},
		{name: "missing password", body: `{"email":"admin@eventmaster.com"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "password is required"},
		{name: "missing email", body: `{"password":"x"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "email is required"},
		{
			name:           "wrong credentials",
			body:           `{"email":"admin@eventmaster.com","password":"nope"}`,
			fakeErr:        fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized),
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid credentials",
		},
		{
			name:           "session store failure",
			body:           `{"email":"admin@eventmaster.com","password":"demo123"}`,
			fakeErr:        errors.New("save session: redis down"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "redis down",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeIdentityService{loginErr: tt.fakeErr}
			rr := httptest.NewRecorder()
			NewAuthController(testLogger, fake).Login(rr, newJSONRequest(http.MethodPost, "/auth/login", tt.body))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var resp LoginResponse
				decodeEnvelope(t, rr, &resp)
				assert.Equal(t, "signed-token", resp.Token)
				assert.Equal(t, "Bearer", resp.TokenType)
				require.NotNil(t, resp.Session)
				assert.True(t, resp.Session.Authenticated)
				return
			}
			envelope := decodeEnvelope(t, rr, nil)
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestAuthController_LogoutAndSession(t *testing.T) {
	fake := &fakeIdentityService{session: &domain.Session{Authenticated: true, Email: "admin@eventmaster.com"}}
	ctrl := NewAuthController(testLogger, fake)

	rr := httptest.NewRecorder()
	ctrl.Session(rr, newJSONRequest(http.MethodGet, "/auth/session", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	var session domain.Session
	decodeEnvelope(t, rr, &session)
	assert.Equal(t, "admin@eventmaster.com", session.Email)

	rr = httptest.NewRecorder()
	ctrl.Logout(rr, newJSONRequest(http.MethodPost, "/auth/logout", ""))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, fake.logoutCall)

	fake.logoutErr = errors.New("store offline")
	rr = httptest.NewRecorder()
	ctrl.Logout(rr, newJSONRequest(http.MethodPost, "/auth/logout", ""))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
