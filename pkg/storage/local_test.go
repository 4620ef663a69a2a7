package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "images/1/a.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/1/a.png", url)

	data, err := os.ReadFile(filepath.Join(root, "images", "1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(context.Background(), "images/1/a.png"))
	require.NoError(t, s.Delete(context.Background(), "images/1/a.png"))
	_, err = os.Stat(filepath.Join(root, "images", "1", "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "uploads"), "/uploads")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}
