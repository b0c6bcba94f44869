package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced image file is absent
	ErrNotFound = errors.New("not found")
	// ErrWrite is returned on I/O failure while persisting data
	ErrWrite = errors.New("write failed")
	// ErrCorruptStore is returned when a metadata file cannot be parsed
	ErrCorruptStore = errors.New("corrupt metadata store")
	// ErrEmptyRepository is returned when a random pick has nothing to pick from
	ErrEmptyRepository = errors.New("no images available yet")
	// ErrValidation is returned for rejected user input
	ErrValidation = errors.New("validation failed")
)

// CorruptStoreError describes a malformed row in a metadata file
type CorruptStoreError struct {
	Path     string
	Line     int
	Expected int
	Got      int
	Err      error
}

func (e *CorruptStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt metadata store %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("corrupt metadata store %s: line %d has %d fields, expected %d", e.Path, e.Line, e.Got, e.Expected)
}

// Is makes errors.Is(err, ErrCorruptStore) match
func (e *CorruptStoreError) Is(target error) bool {
	return target == ErrCorruptStore
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// ValidationError carries a user-facing message for rejected input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
