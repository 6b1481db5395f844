package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/persistence"
)

// DraftRepository handles draft-related database operations.
type DraftRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db *sql.DB, logger *slog.Logger) *DraftRepository {
	return &DraftRepository{db: db, logger: logger}
}

// Save upserts the full draft document.
func (dr *DraftRepository) Save(ctx context.Context, draft *models.Draft) error {
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}

	draft.UpdatedAt = now

	dataJSON, err := json.Marshal(draft.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal draft data: %w", err)
	}

	query := `
		INSERT INTO drafts (
			id, draft_type, status, owner, draft_data,
			created_at, updated_at, published_at, deleted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			owner = EXCLUDED.owner,
			draft_data = EXCLUDED.draft_data,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = dr.db.ExecContext(ctx, query,
		draft.ID,
		draft.Type,
		draft.Status,
		draft.Owner,
		dataJSON,
		draft.CreatedAt,
		draft.UpdatedAt,
		draft.PublishedAt,
		draft.DeletedAt,
	)
	if err != nil {
		return persistence.NewDraftError("Save", draft.ID, err)
	}

	return nil
}

// GetByID retrieves a draft by its ID. Missing and soft-deleted drafts both
// return (nil, nil).
func (dr *DraftRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `
		SELECT id, draft_type, status, owner, draft_data,
			   created_at, updated_at, published_at, deleted_at
		FROM drafts
		WHERE id = $1 AND deleted_at IS NULL
	`

	draft, err := dr.scanDraft(dr.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, persistence.NewDraftError("GetByID", id, err)
	}

	return draft, nil
}

// List returns paginated, filtered, sorted drafts.
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

	// Validate sort parameters against allowlist (security)
	allowedSorts := map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"title":      "draft_data->>'title'",
	}

	sortColumn, ok := allowedSorts[opts.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}

	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	if opts.Owner != "" {
		args = append(args, opts.Owner)
		conditions = append(conditions, fmt.Sprintf("owner = $%d", len(args)))
	}

	if opts.Type != nil {
		args = append(args, *opts.Type)
		conditions = append(conditions, fmt.Sprintf("draft_type = $%d", len(args)))
	}

	if opts.Status != nil {
		args = append(args, *opts.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64

	countQuery := "SELECT COUNT(*) FROM drafts WHERE " + where
	if err := dr.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count drafts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, draft_type, status, owner, draft_data,
			   created_at, updated_at, published_at, deleted_at
		FROM drafts
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, sortColumn, direction, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := dr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			dr.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	drafts := make([]*models.Draft, 0, opts.Limit)

	for rows.Next() {
		draft, err := dr.scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}

		drafts = append(drafts, draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	return &persistence.DraftListResult{
		Drafts:      drafts,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(drafts)) < totalCount,
	}, nil
}

// Delete soft-deletes a draft by setting the deleted_at timestamp.
func (dr *DraftRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE drafts SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	_, err := dr.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return persistence.NewDraftError("Delete", id, err)
	}

	return nil
}

// PurgeBefore permanently removes soft-deleted drafts and abandoned
// never-published drafts last touched before the cutoff.
func (dr *DraftRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		DELETE FROM drafts
		WHERE (deleted_at IS NOT NULL AND deleted_at < $1)
		   OR (status = 'draft' AND updated_at < $1)
	`

	result, err := dr.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged drafts: %w", err)
	}

	return int(affected), nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func (dr *DraftRepository) scanDraft(row rowScanner) (*models.Draft, error) {
	var (
		draft    models.Draft
		owner    sql.NullString
		dataJSON []byte
	)

	err := row.Scan(
		&draft.ID,
		&draft.Type,
		&draft.Status,
		&owner,
		&dataJSON,
		&draft.CreatedAt,
		&draft.UpdatedAt,
		&draft.PublishedAt,
		&draft.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	draft.Owner = owner.String

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &draft.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft data: %w", err)
		}
	}

	if draft.Data == nil {
		draft.Data = models.FormData{}
	}

	return &draft, nil
}
