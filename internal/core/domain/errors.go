package domain

import (
	"errors"
	"fmt"
)

// The pipeline's error taxonomy. Every error crossing a port boundary is
// wrapped around exactly one of these kinds so adapters can map it
// (HTTP status, REPL fallback) without knowing the producing backend.
var (
	// ErrDocumentNotFound: a document ID that is not in the store.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput: the caller's request cannot be processed as given
	// (empty query, empty document text, duplicate ID).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoGeneration: the generator backend produced no answer. Callers
	// must treat this as "no answer produced", never as an empty string.
	ErrNoGeneration = errors.New("no response produced")

	// ErrTemporary: a transient backend failure; retrying the same call
	// later may succeed.
	ErrTemporary = errors.New("temporary failure")
)

// WrapError ties err to a kind with operation context. Both the kind and
// the original error stay matchable through errors.Is.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
