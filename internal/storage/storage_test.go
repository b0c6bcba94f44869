package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/captionset/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader returns an error after the first read
type failingReader struct {
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("connection reset")
	}
	r.done = true
	return copy(p, "partial"), nil
}

func TestNewLocalStorage(t *testing.T) {
	s := NewLocalStorage("/tmp/images")

	assert.NotNil(t, s)
	assert.Equal(t, "/tmp/images", s.BasePath())
}

func TestLocalStorage_Store(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		content       string
		expectedError error
	}{
		{
			name:     "success",
			filename: "a1b2.jpg",
			content:  "image bytes",
		},
		{
			name:          "path traversal rejected",
			filename:      "../escape.jpg",
			content:       "image bytes",
			expectedError: models.ErrNotFound,
		},
		{
			name:          "empty name rejected",
			filename:      "",
			content:       "image bytes",
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "uploaded_images")
			s := NewLocalStorage(dir)

			size, err := s.Store(tt.filename, strings.NewReader(tt.content))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.content)), size)

			data, err := os.ReadFile(filepath.Join(dir, tt.filename))
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestLocalStorage_Store_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)

	_, err := s.Store("broken.png", &failingReader{})

	assert.ErrorIs(t, err, models.ErrWrite)
	assert.False(t, s.Exists("broken.png"))
}

func TestLocalStorage_Read(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	_, err := s.Store("cat.png", strings.NewReader("meow"))
	require.NoError(t, err)

	t.Run("existing file", func(t *testing.T) {
		data, err := s.Read("cat.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("meow"), data)
	})

	t.Run("missing file", func(t *testing.T) {
		data, err := s.Read("dog.png")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, data)
	})
}

func TestLocalStorage_List(t *testing.T) {
	t.Run("missing folder is empty", func(t *testing.T) {
		s := NewLocalStorage(filepath.Join(t.TempDir(), "never-created"))

		names, err := s.List()

		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("only regular files sorted", func(t *testing.T) {
		dir := t.TempDir()
		s := NewLocalStorage(dir)
		for _, name := range []string{"b.jpg", "a.png", "notes.txt"} {
			_, err := s.Store(name, strings.NewReader(name))
			require.NoError(t, err)
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

		names, err := s.List()

		require.NoError(t, err)
		assert.Equal(t, []string{"a.png", "b.jpg", "notes.txt"}, names)
	})
}

func TestLocalStorage_Delete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	_, err := s.Store("x.gif", strings.NewReader("gif"))
	require.NoError(t, err)

	require.NoError(t, s.Delete("x.gif"))
	assert.False(t, s.Exists("x.gif"))
	assert.ErrorIs(t, s.Delete("x.gif"), models.ErrNotFound)
}
