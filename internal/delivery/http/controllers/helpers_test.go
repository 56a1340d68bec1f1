package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
	"eventmaster/internal/repository/memory"
	"eventmaster/internal/services"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 5 * time.Second

// newJSONRequest builds a request with a JSON body and the given path values.
func newJSONRequest(method, target, body string, pathValues ...string) *http.Request {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}

// newEventStore returns a memory-backed event service holding one event.
func newEventStore(t *testing.T) (domain.KVStore, domain.EventService, *domain.Event) {
	t.Helper()
	kv := memory.NewKVStore()
	events := services.NewEventService(kv, testLogger, testTimeout)
	event := domain.NewEvent("Launch", "Product launch", "2025-06-01", "18:00", "Loft", "admin@eventmaster.com")
	require.NoError(t, events.CreateEvent(t.Context(), event))
	return kv, events, event
}
