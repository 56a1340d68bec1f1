package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_ScheduleInterval(t *testing.T) {
	s := NewScheduler(time.UTC, testLogger)

	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)

	_, err = s.ScheduleInterval(500*time.Millisecond, func() {})
	require.NoError(t, err, "sub-second intervals round up to one second")
	assert.Equal(t, 1, s.Entries())
}

func TestScheduler_PrunesUploads(t *testing.T) {
	files, _, _ := newFileFixture(t, time.Millisecond)
	s := NewScheduler(time.UTC, testLogger)
	_, err := s.ScheduleUploadPruning(files, time.Minute, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())
	s.Start()
	s.Stop()
}
