package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/memory"
)

const testTimeout = 5 * time.Second

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

func fixedClock() time.Time { return fixedNow }

// newEventFixture returns a memory store, an event service on it and one stored event.
func newEventFixture(t *testing.T) (domain.KVStore, domain.EventService, *domain.Event) {
	t.Helper()
	kv := memory.NewKVStore()
	events := NewEventService(kv, testLogger, testTimeout)
	event := domain.NewEvent("Launch Party", "Product launch", "2025-06-01", "18:00", "Rooftop", "admin@eventmaster.com")
	require.NoError(t, events.CreateEvent(context.Background(), event))
	return kv, events, event
}
