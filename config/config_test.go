package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	for _, k := range []string{"PORT", "STORE_DRIVER", "NOTE_IDLE_WINDOW", "UPLOAD_STEP", "SEED_DEMO_RSVPS", "ADMIN_EMAIL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.NoteIdleWindow)
	assert.Equal(t, 10, cfg.UploadStep)
	assert.Equal(t, 200*time.Millisecond, cfg.UploadTick)
	assert.Equal(t, time.Second, cfg.RSVPSubmitDelay)
	assert.True(t, cfg.SeedDemoRSVPs)
	assert.Equal(t, "admin@eventmaster.com", cfg.AdminEmail)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("NOTE_IDLE_WINDOW", "500ms")
	t.Setenv("UPLOAD_STEP", "250")
	t.Setenv("SEED_DEMO_RSVPS", "false")
	t.Setenv("NOTE_HISTORY_LIMIT", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.StoreDriver)
	assert.Equal(t, 500*time.Millisecond, cfg.NoteIdleWindow)
	assert.Equal(t, 10, cfg.UploadStep, "out of range step falls back")
	assert.False(t, cfg.SeedDemoRSVPs)
	assert.Equal(t, 0, cfg.NoteHistoryLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
