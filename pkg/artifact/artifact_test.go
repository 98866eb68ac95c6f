package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampIsFilesystemSafe(t *testing.T) {
	ts := Timestamp(time.Date(2026, 5, 4, 13, 22, 7, 123456789, time.UTC))
	assert.NotContains(t, ts, ":")
	assert.NotContains(t, ts, ".")
	assert.True(t, strings.HasPrefix(ts, "2026-05-04T13-22-07"))
}

func TestLocalStoreUpload(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "https://artifacts.test/")

	ref, err := s.Upload("story-1", "2026-05-04T13-22-07Z", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://artifacts.test/story-1/2026-05-04T13-22-07Z.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "story-1", "2026-05-04T13-22-07Z.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestLocalStoreWithoutBaseURLReturnsPath(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "")

	ref, err := s.Upload("story-1", "stamp", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "story-1", "stamp.png"), ref)
}

func TestLocalStoreUnwritableRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "file-in-the-way"), "")
	require.NoError(t, os.WriteFile(s.Root, []byte("x"), 0o644))

	_, err := s.Upload("story-1", "stamp", []byte("png"))
	assert.Error(t, err)
}
