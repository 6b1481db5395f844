// Package persistence provides the data storage abstraction layer for drafts.
package persistence

import (
	"context"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
)

// Persistence is the storage backend contract. Backends are selected by
// database URL scheme at startup.
type Persistence interface {
	Drafts() DraftRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// ListDraftsOptions filters and paginates draft listings.
type ListDraftsOptions struct {
	Limit     int
	Offset    int
	Owner     string
	Type      *models.DraftType
	Status    *models.DraftStatus
	SortBy    string
	SortOrder string
}

// DraftListResult carries one page of drafts plus pagination metadata.
type DraftListResult struct {
	Drafts      []*models.Draft
	TotalCount  int64
	HasNextPage bool
}

// DraftRepository handles draft storage operations.
type DraftRepository interface {
	// Save upserts the full draft document.
	Save(ctx context.Context, draft *models.Draft) error

	// GetByID returns the draft, or (nil, nil) when it does not exist or
	// was soft-deleted.
	GetByID(ctx context.Context, id string) (*models.Draft, error)

	// List returns paginated, filtered, sorted drafts.
	List(ctx context.Context, opts ListDraftsOptions) (*DraftListResult, error)

	// Delete soft-deletes a draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, id string) error

	// PurgeBefore permanently removes soft-deleted drafts and abandoned
	// never-published drafts last touched before the cutoff. Returns the
	// number of drafts removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}
