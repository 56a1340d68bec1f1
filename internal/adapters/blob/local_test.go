package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/domain"
)

func TestLocalStore_Put(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "e1/job1/floor plan.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "/blobs/e1/job1/floor%20plan.pdf", url)

	data, err := os.ReadFile(filepath.Join(root, "e1", "job1", "floor plan.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"../secret", "a/../../b", "", "a//b", "e1/job1/..", "e1/job1/."} {
		_, err := s.Put(context.Background(), key, strings.NewReader("x"))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), key)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "e1/a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
