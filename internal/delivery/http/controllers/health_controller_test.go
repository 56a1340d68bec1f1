package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/memory"

	"github.com/stretchr/testify/assert"
)

type brokenStore struct{ domain.KVStore }

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestHealthController_Healthz(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthController(testLogger, memory.NewKVStore()).Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	NewHealthController(testLogger, brokenStore{}).Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
