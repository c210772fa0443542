package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFile is returned when an ingest is attempted without a file.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrSessionNotFound is returned by the registry for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidHeader is returned when the CSV header row cannot be read.
	ErrInvalidHeader = errors.New("invalid csv header")
)

// RowDecodeError reports a single CSV row that could not be mapped onto a
// Record. It is never fatal to an ingest.
type RowDecodeError struct {
	Line int
	Err  error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("row decode: line %d: %v", e.Line, e.Err)
}

func (e *RowDecodeError) Unwrap() error { return e.Err }

// FileAccessError reports that the selected file could not be read.
type FileAccessError struct {
	Name string
	Err  error
}

func (e *FileAccessError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("file access: %v", e.Err)
	}
	return fmt.Sprintf("file access %q: %v", e.Name, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// EncodingError reports file content that is not valid UTF-8.
type EncodingError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: invalid UTF-8 at byte %d", e.Offset)
}
