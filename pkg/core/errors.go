package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly        = errors.New("repository is in read-only mode")
	ErrNotFound        = errors.New("document not found")
	ErrInvalidDocument = errors.New("invalid document")
)

// ParseError reports a document file that could not be turned into a Document.
// It never aborts a batch: the driver records it and moves on.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError for path.
func NewParseError(path, reason string, err error) *ParseError {
	return &ParseError{Path: path, Reason: reason, Err: err}
}
