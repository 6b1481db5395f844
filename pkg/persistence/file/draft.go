package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/persistence"
)

// DraftRepository handles draft-related file operations.
type DraftRepository struct {
	root string // File system root for storing drafts
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(root string) *DraftRepository {
	return &DraftRepository{root: root}
}

// Save writes the full draft document to disk.
func (dr *DraftRepository) Save(_ context.Context, draft *models.Draft) error {
	err := os.MkdirAll(dr.root+"/drafts", 0750)
	if err != nil {
		return fmt.Errorf("failed to create drafts directory: %w", err)
	}

	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}

	draft.UpdatedAt = now

	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", draft.ID, err)
	}

	filePath := path.Join(dr.root+"/drafts", draft.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// GetByID retrieves a draft by its ID from the file system. Missing and
// soft-deleted drafts both return (nil, nil).
func (dr *DraftRepository) GetByID(_ context.Context, id string) (*models.Draft, error) {
	draft, err := dr.read(id)
	if err != nil || draft == nil {
		return nil, err
	}

	if draft.DeletedAt != nil {
		return nil, nil
	}

	return draft, nil
}

// read loads a draft file regardless of its deletion marker.
func (dr *DraftRepository) read(id string) (*models.Draft, error) {
	filePath := filepath.Clean(path.Join(dr.root, "drafts", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch draft %s: %w", id, err)
	}

	var draft models.Draft

	err = json.Unmarshal(body, &draft)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", id, err)
	}

	return &draft, nil
}

// List returns paginated and filtered drafts with in-memory operations.
func (dr *DraftRepository) List(ctx context.Context, opts persistence.ListDraftsOptions) (*persistence.DraftListResult, error) {
	// Set defaults
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	// Validate sort parameters against allowlist (security)
	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	allDrafts, err := dr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	// Apply filtering
	filtered := make([]*models.Draft, 0, len(allDrafts))

	for _, draft := range allDrafts {
		if draft.DeletedAt != nil {
			continue
		}

		if opts.Owner != "" && draft.Owner != opts.Owner {
			continue
		}

		if opts.Type != nil && draft.Type != *opts.Type {
			continue
		}

		if opts.Status != nil && draft.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, draft)
	}

	dr.sortDrafts(filtered, opts.SortBy, opts.SortOrder)

	// Calculate pagination
	totalCount := int64(len(filtered))
	startIdx := opts.Offset
	endIdx := opts.Offset + opts.Limit

	if startIdx >= len(filtered) {
		return &persistence.DraftListResult{
			Drafts:      make([]*models.Draft, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	return &persistence.DraftListResult{
		Drafts:      filtered[startIdx:endIdx],
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

func (dr *DraftRepository) loadAll(_ context.Context) ([]*models.Draft, error) {
	root := os.DirFS(dr.root + "/drafts")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list draft files: %w", err)
	}

	drafts := make([]*models.Draft, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-5] // Remove .json extension

		draft, err := dr.read(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
		}

		if draft != nil {
			drafts = append(drafts, draft)
		}
	}

	return drafts, nil
}

// sortDrafts sorts drafts in-place based on the specified field and order.
func (dr *DraftRepository) sortDrafts(drafts []*models.Draft, sortBy, sortOrder string) {
	sort.Slice(drafts, func(i, j int) bool {
		var less bool

		switch sortBy {
		case "created_at":
			less = drafts[i].CreatedAt.Before(drafts[j].CreatedAt)
		case "updated_at":
			less = drafts[i].UpdatedAt.Before(drafts[j].UpdatedAt)
		case "title":
			less = drafts[i].Data.String("title") < drafts[j].Data.String("title")
		default:
			less = drafts[i].CreatedAt.Before(drafts[j].CreatedAt)
		}

		if sortOrder == "desc" {
			return !less
		}

		return less
	})
}

// Delete soft-deletes a draft by stamping its deletion marker. Deleting a
// missing draft is a no-op.
func (dr *DraftRepository) Delete(ctx context.Context, id string) error {
	draft, err := dr.read(id)
	if err != nil {
		return persistence.NewDraftError("Delete", id, err)
	}

	if draft == nil || draft.DeletedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	draft.DeletedAt = &now

	return dr.Save(ctx, draft)
}

// PurgeBefore permanently removes soft-deleted drafts and abandoned
// never-published drafts last touched before the cutoff.
func (dr *DraftRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	allDrafts, err := dr.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	purged := 0

	for _, draft := range allDrafts {
		deleted := draft.DeletedAt != nil && draft.DeletedAt.Before(cutoff)
		abandoned := draft.Status == models.DraftStatusDraft && draft.UpdatedAt.Before(cutoff)

		if !deleted && !abandoned {
			continue
		}

		filePath := path.Join(dr.root+"/drafts", draft.ID+".json")
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return purged, fmt.Errorf("failed to purge draft %s: %w", draft.ID, err)
		}

		purged++
	}

	return purged, nil
}
