package storage

import (
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/captionset/backend/internal/models"
	"github.com/google/uuid"
)

// GenerateFileName allocates a collision-free storage name for an uploaded file.
// It keeps the lower-cased extension of originalName behind a random UUID.
func GenerateFileName(originalName string) string {
	extension := strings.ToLower(filepath.Ext(originalName))
	// "name." has an extension of just "."
	if extension == "." {
		extension = ""
	}
	return uuid.New().String() + extension
}

// Lister enumerates the files of an image repository
type Lister interface {
	List() ([]string, error)
}

// PickRandom selects one accepted image from repo uniformly at random.
// A nil rnd uses the global source.
func PickRandom(repo Lister, rnd *rand.Rand) (string, error) {
	names, err := repo.List()
	if err != nil {
		return "", err
	}

	candidates := make([]string, 0, len(names))
	for _, name := range names {
		if models.IsAcceptedImage(name) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", models.ErrEmptyRepository
	}

	if rnd == nil {
		return candidates[rand.IntN(len(candidates))], nil
	}
	return candidates[rnd.IntN(len(candidates))], nil
}

// sizeWriter tracks the total number of bytes written to it
type sizeWriter struct {
	size int64
}

// Write implements io.Writer
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new sizeWriter instance
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{
		size: 0,
	}
}
