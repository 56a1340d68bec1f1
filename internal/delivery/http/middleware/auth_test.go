package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	operator  string
	err       error
	lastToken string
}

func (f *fakeTokenVerifier) Verify(_ context.Context, token string) (string, error) {
	f.lastToken = token
	if f.err != nil {
		return "", f.err
	}
	return f.operator, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name         string
		target       string
		headers      map[string]string
		verifier     *fakeTokenVerifier
		wantStatus   int
		wantToken    string
		wantOperator string
	}{
		{
			name:         "valid token sets context and calls next",
			target:       "/events",
			headers:      map[string]string{"Authorization": "Bearer valid-token"},
			verifier:     &fakeTokenVerifier{operator: "admin@eventmaster.com"},
			wantStatus:   http.StatusOK,
			wantToken:    "valid-token",
			wantOperator: "admin@eventmaster.com",
		},
		{
			name:       "missing authorization header",
			target:     "/events",
			verifier:   &fakeTokenVerifier{operator: "admin@eventmaster.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid authorization format no Bearer prefix",
			target:     "/events",
			headers:    map[string]string{"Authorization": "Basic abc"},
			verifier:   &fakeTokenVerifier{operator: "admin@eventmaster.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token after Bearer",
			target:     "/events",
			headers:    map[string]string{"Authorization": "Bearer "},
			verifier:   &fakeTokenVerifier{operator: "admin@eventmaster.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier returns error",
			target:     "/events",
			headers:    map[string]string{"Authorization": "Bearer stale"},
			verifier:   &fakeTokenVerifier{err: domain.ErrUnauthorized},
			wantStatus: http.StatusUnauthorized,
			wantToken:  "stale",
		},
		{
			name:         "websocket upgrade may use query token",
			target:       "/uploads/1/ws?access_token=qs-token",
			headers:      map[string]string{"Upgrade": "websocket"},
			verifier:     &fakeTokenVerifier{operator: "admin@eventmaster.com"},
			wantStatus:   http.StatusOK,
			wantToken:    "qs-token",
			wantOperator: "admin@eventmaster.com",
		},
		{
			name:       "query token ignored on plain requests",
			target:     "/events?access_token=qs-token",
			verifier:   &fakeTokenVerifier{operator: "admin@eventmaster.com"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var captured string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				captured, _ = OperatorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test"+tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.wantStatus == http.StatusOK, nextCalled, "next handler called")
			assert.Equal(t, tt.wantToken, tt.verifier.lastToken)
			assert.Equal(t, tt.wantOperator, captured)
			if tt.wantStatus != http.StatusOK {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
			}
		})
	}
}
