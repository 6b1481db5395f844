// Package file provides file-based persistence for drafts. Meant for local
// development and tests; each draft is one JSON document on disk.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/atriumhq/atrium/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root      string
	draftRepo *DraftRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:      cleanRoot,
		draftRepo: NewDraftRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Drafts returns the draft repository implementation for file persistence.
func (fp *Persistence) Drafts() persistence.DraftRepository {
	return fp.draftRepo
}
