// Package gateway provides the client contract for the remote draft store.
// The wizard session depends only on the Gateway interface; the HTTP
// implementation talks to the drafts API.
package gateway

import (
	"context"
	"errors"

	"github.com/atriumhq/atrium/pkg/models"
)

var (
	// ErrDraftNotFound indicates the remote store has no draft for the id.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrRequestFailed indicates a non-success response without a more
	// specific classification.
	ErrRequestFailed = errors.New("draft request failed")
)

// Gateway is the draft persistence surface the wizard session depends on.
// Every operation may fail; callers convert failures to structured results
// at the session boundary rather than letting them propagate into
// step-rendering code.
type Gateway interface {
	// Create allocates a new draft of the given type and returns its
	// server-assigned id.
	Create(ctx context.Context, draftType models.DraftType) (string, error)

	// Update upserts the full form-data document onto an existing draft.
	Update(ctx context.Context, draftID string, data models.FormData, status models.DraftStatus) error

	// Get fetches a draft, used to hydrate a resumed session.
	Get(ctx context.Context, draftID string) (*models.Draft, error)

	// Delete removes a draft.
	Delete(ctx context.Context, draftID string) error

	// Publish finalizes a draft; it becomes non-editable through the wizard.
	Publish(ctx context.Context, draftID string) error

	// List returns the caller's draft summaries for a type, used by browse
	// screens rather than the wizard itself.
	List(ctx context.Context, draftType models.DraftType) ([]models.DraftSummary, error)
}
