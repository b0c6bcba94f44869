package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/captionset/backend/internal/models"
)

// localStorage is an image repository backed by a single folder on the local filesystem
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance rooted at basePath
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// BasePath returns the folder holding the images
func (s *localStorage) BasePath() string {
	return s.basePath
}

// generatePath returns the full path for filename, rejecting names that would escape the folder
func (s *localStorage) generatePath(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid file name %q: %w", filename, models.ErrNotFound)
	}
	return filepath.Join(s.basePath, filename), nil
}

// Store writes the content of r under filename and returns the number of bytes written.
// A partially written file is removed when the copy fails.
func (s *localStorage) Store(filename string, r io.Reader) (int64, error) {
	path, err := s.generatePath(filename)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return 0, fmt.Errorf("failed to create folder %s: %w: %w", s.basePath, models.ErrWrite, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w: %w", models.ErrWrite, err)
	}

	sizeWriter := NewSizeWriter()
	_, err = io.Copy(file, io.TeeReader(r, sizeWriter))
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write file: %w: %w", models.ErrWrite, err)
	}

	return sizeWriter.Size(), nil
}

// Open opens a file for reading; use it with http.ServeContent
func (s *localStorage) Open(filename string) (*os.File, error) {
	path, err := s.generatePath(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file %s: %w", filename, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	return file, nil
}

// Read returns the full content of a file
func (s *localStorage) Read(filename string) ([]byte, error) {
	file, err := s.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return data, nil
}

// Exists reports whether filename is present as a regular file
func (s *localStorage) Exists(filename string) bool {
	path, err := s.generatePath(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// List returns the names of all regular files in the folder, sorted.
// A folder that was never created is an empty repository.
func (s *localStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", s.basePath, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a file
func (s *localStorage) Delete(filename string) error {
	path, err := s.generatePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file %s: %w", filename, models.ErrNotFound)
		}
		return fmt.Errorf("failed to delete file %s: %w", filename, err)
	}
	return nil
}
