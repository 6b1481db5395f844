// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrDraftNotFound indicates a draft was not found by the given identifier.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrDraftPublished indicates a write was attempted on a published draft.
	ErrDraftPublished = errors.New("draft already published")

	// ErrInvalidSortField indicates a listing requested a sort field outside
	// the allowlist.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// DraftError wraps draft-related errors with additional context.
type DraftError struct {
	Op      string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	DraftID string // Draft ID if applicable
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *DraftError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for draft %s: %s (%v)", e.Op, e.DraftID, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for draft %s: %v", e.Op, e.DraftID, e.Err)
}

func (e *DraftError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for draft errors.
func (e *DraftError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDraftError creates a new draft error with context.
func NewDraftError(op, draftID string, err error) *DraftError {
	return &DraftError{
		Op:      op,
		DraftID: draftID,
		Err:     err,
	}
}

// IsDraftNotFound checks if an error indicates a draft was not found.
func IsDraftNotFound(err error) bool {
	return errors.Is(err, ErrDraftNotFound)
}

// IsDraftPublished checks if an error indicates a write hit a published draft.
func IsDraftPublished(err error) bool {
	return errors.Is(err, ErrDraftPublished)
}
