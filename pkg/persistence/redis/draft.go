package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "atrium:draft:"
	draftIndexKey  = "atrium:drafts"
)

// DraftRepository handles draft-related Redis operations.
type DraftRepository struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(client *goredis.Client, logger *slog.Logger) *DraftRepository {
	return &DraftRepository{client: client, logger: logger}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

// Save upserts the full draft document and maintains the creation-time index.
func (dr *DraftRepository) Save(ctx context.Context, draft *models.Draft) error {
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}

	draft.UpdatedAt = now

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", draft.ID, err)
	}

	pipe := dr.client.TxPipeline()
	pipe.Set(ctx, draftKey(draft.ID), data, 0)
	pipe.ZAdd(ctx, draftIndexKey, goredis.Z{
		Score:  float64(draft.CreatedAt.UnixMilli()),
		Member: draft.ID,
	})

	_, err = pipe.Exec(ctx)
	if err != nil {
		return persistence.NewDraftError("Save", draft.ID, err)
	}

	return nil
}

// GetByID retrieves a draft by its ID. Missing and soft-deleted drafts both
// return (nil, nil).
func (dr *DraftRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	draft, err := dr.read(ctx, id)
	if err != nil || draft == nil {
		return nil, err
	}

	if draft.DeletedAt != nil {
		return nil, nil
	}

	return draft, nil
}

// read loads a draft regardless of its deletion marker.
func (dr *DraftRepository) read(ctx context.Context, id string) (*models.Draft, error) {
	data, err := dr.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}

		return nil, persistence.NewDraftError("GetByID", id, err)
	}

	var draft models.Draft

	err = json.Unmarshal(data, &draft)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", id, err)
	}

	return &draft, nil
}

// List returns paginated, filtered, sorted drafts. Candidates come from the
// creation-time index; filtering and sorting happen in memory, same as the
// file backend.
func (dr *DraftRepository) List(ctx context.Context, opts persistence.ListDraftsOptions) (*persistence.DraftListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	ids, err := dr.client.ZRange(ctx, draftIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read draft index: %w", err)
	}

	filtered := make([]*models.Draft, 0, len(ids))

	for _, id := range ids {
		draft, err := dr.read(ctx, id)
		if err != nil {
			return nil, err
		}

		if draft == nil || draft.DeletedAt != nil {
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

	sortDrafts(filtered, opts.SortBy, opts.SortOrder)

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

func sortDrafts(drafts []*models.Draft, sortBy, sortOrder string) {
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
	draft, err := dr.read(ctx, id)
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
	ids, err := dr.client.ZRange(ctx, draftIndexKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read draft index: %w", err)
	}

	purged := 0

	for _, id := range ids {
		draft, err := dr.read(ctx, id)
		if err != nil {
			return purged, err
		}

		if draft == nil {
			// Index entry without a document, clean it up.
			dr.client.ZRem(ctx, draftIndexKey, id)

			continue
		}

		deleted := draft.DeletedAt != nil && draft.DeletedAt.Before(cutoff)
		abandoned := draft.Status == models.DraftStatusDraft && draft.UpdatedAt.Before(cutoff)

		if !deleted && !abandoned {
			continue
		}

		pipe := dr.client.TxPipeline()
		pipe.Del(ctx, draftKey(id))
		pipe.ZRem(ctx, draftIndexKey, id)

		if _, err := pipe.Exec(ctx); err != nil {
			return purged, fmt.Errorf("failed to purge draft %s: %w", id, err)
		}

		purged++
	}

	return purged, nil
}
