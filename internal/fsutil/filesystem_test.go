package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystemRoundTrip(t *testing.T) {
	fs := NewMemoryFileSystem()

	assert.False(t, fs.Exists("clip.json"))
	_, err := fs.ReadFile("clip.json")
	assert.Error(t, err)

	require.NoError(t, fs.WriteFile("clip.json", []byte(`{"version":1}`), 0o644))
	assert.True(t, fs.Exists("clip.json"))

	data, err := fs.ReadFile("clip.json")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))
}

func TestMemoryFileSystemCopiesData(t *testing.T) {
	fs := NewMemoryFileSystem()
	buf := []byte("abc")
	require.NoError(t, fs.WriteFile("f", buf, 0o644))
	buf[0] = 'z'

	data, err := fs.ReadFile("f")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestOSFileSystemRoundTrip(t *testing.T) {
	fs := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "out.json")

	assert.False(t, fs.Exists(path))
	require.NoError(t, fs.WriteFile(path, []byte("payload"), 0o644))
	assert.True(t, fs.Exists(path))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
