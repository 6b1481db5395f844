package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/persistence"
	"github.com/atriumhq/atrium/pkg/steps"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// ErrDraftNotFound is returned when a draft is not found.
var ErrDraftNotFound = persistence.ErrDraftNotFound

// Draft is the business logic service for draft lifecycle operations.
type Draft struct {
	persistence persistence.Persistence
}

// NewDraft creates a new draft service.
func NewDraft(persistence persistence.Persistence) *Draft {
	return &Draft{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (d *Draft) HealthCheck(ctx context.Context) (string, bool) {
	if d.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := d.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Create allocates a new empty draft of the given type. The id is assigned
// here and never by clients.
func (d *Draft) Create(ctx context.Context, draftType models.DraftType, owner string) (*models.Draft, error) {
	if !draftType.Valid() {
		return nil, NewValidationError(
			"Create",
			"INVALID_DRAFT_TYPE",
			fmt.Sprintf("invalid draft type '%s'", draftType),
			ErrInvalidDraftType,
		)
	}

	now := time.Now().UTC()
	draft := &models.Draft{
		ID:        uuid.New().String(),
		Type:      draftType,
		Status:    models.DraftStatusDraft,
		Owner:     strings.TrimSpace(owner),
		Data:      models.FormData{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := d.persistence.Drafts().Save(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return draft, nil
}

// FetchByID retrieves a draft by its ID.
func (d *Draft) FetchByID(ctx context.Context, id string) (*models.Draft, error) {
	draft, err := d.persistence.Drafts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if draft == nil {
		return nil, ErrDraftNotFound
	}

	return draft, nil
}

// Update merges incoming field values into a draft's data document. The merge
// is strictly additive: incoming keys overwrite, keys absent from the payload
// survive untouched. Wizard steps each own a slice of the document and must
// never clobber each other's fields.
func (d *Draft) Update(ctx context.Context, id string, data models.FormData, status *models.DraftStatus) (*models.Draft, error) {
	existing, err := d.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !existing.Editable() {
		return nil, NewValidationError(
			"Update",
			"DRAFT_PUBLISHED",
			fmt.Sprintf("draft '%s' is published and can no longer be edited", id),
			ErrDraftAlreadyPublished,
		)
	}

	if status != nil && *status != models.DraftStatusDraft {
		// Publishing goes through the publish operation, never through a
		// plain update.
		return nil, NewValidationError(
			"Update",
			"INVALID_STATUS",
			fmt.Sprintf("status '%s' cannot be set via update", *status),
			ErrInvalidStatus,
		)
	}

	if err := d.checkDataShape(existing.Type, data); err != nil {
		return nil, err
	}

	if existing.Data == nil {
		existing.Data = models.FormData{}
	}

	for key, value := range data {
		existing.Data[key] = value
	}

	err = d.persistence.Drafts().Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	return existing, nil
}

// checkDataShape validates the incoming payload against the composed step
// schema for the draft type. Only gross type mismatches on known keys are
// rejected; unknown keys pass through so the document stays open-ended, and
// field-level rules stay with the step validators.
func (d *Draft) checkDataShape(draftType models.DraftType, data models.FormData) error {
	if len(data) == 0 {
		return nil
	}

	registry, err := steps.ForType(draftType)
	if err != nil {
		return fmt.Errorf("failed to resolve step registry: %w", err)
	}

	schemaJSON, err := json.Marshal(typeOnlySchema(registry.DataSchema()))
	if err != nil {
		return fmt.Errorf("failed to marshal data schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to run shape check: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			details = append(details, resultError.String())
		}

		return NewValidationError(
			"Update",
			"INVALID_DRAFT_DATA",
			strings.Join(details, "; "),
			ErrInvalidDraftData,
		)
	}

	return nil
}

// typeOnlySchema strips everything but type declarations from the composed
// schema. Patterns, enums and formats describe finished values; in-progress
// drafts legitimately hold half-typed ones.
func typeOnlySchema(schema *models.JSONSchema) map[string]any {
	properties := make(map[string]any, len(schema.Properties))

	for name, prop := range schema.Properties {
		properties[name] = typeOnlyProperty(prop)
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func typeOnlyProperty(prop *models.Property) map[string]any {
	out := map[string]any{"type": prop.Type}

	if prop.Items != nil {
		out["items"] = typeOnlyProperty(prop.Items)
	}

	return out
}

// ListDraftsRequest contains options for listing drafts.
type ListDraftsRequest struct {
	// Pagination
	Limit  int
	Offset int

	// Filtering
	Owner  string
	Type   *models.DraftType
	Status *models.DraftStatus

	// Sorting
	SortBy    string
	SortOrder string
}

// ListDraftsResponse contains the result of listing drafts.
type ListDraftsResponse struct {
	Drafts      []models.DraftSummary `json:"drafts"`
	TotalCount  int64                 `json:"total_count"`
	HasNextPage bool                  `json:"has_next_page"`
}

// List retrieves draft summaries with filtering, sorting, and pagination.
func (d *Draft) List(ctx context.Context, req ListDraftsRequest) (*ListDraftsResponse, error) {
	if err := d.validateListDraftsRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	opts := persistence.ListDraftsOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		Owner:     req.Owner,
		Type:      req.Type,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	result, err := d.persistence.Drafts().List(ctx, opts)
	if err != nil {
		if persistence.IsDraftNotFound(err) {
			return nil, ErrDraftNotFound
		}

		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	summaries := make([]models.DraftSummary, 0, len(result.Drafts))
	for _, draft := range result.Drafts {
		summaries = append(summaries, draft.Summary())
	}

	return &ListDraftsResponse{
		Drafts:      summaries,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// validateListDraftsRequest validates and sets defaults for the request.
func (d *Draft) validateListDraftsRequest(req *ListDraftsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "title"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListDraftsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListDraftsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Type != nil && !req.Type.Valid() {
		return NewValidationError(
			"validateListDraftsRequest",
			"INVALID_DRAFT_TYPE",
			fmt.Sprintf("invalid draft type '%s'", *req.Type),
			ErrInvalidDraftType,
		)
	}

	if req.Status != nil &&
		*req.Status != models.DraftStatusDraft && *req.Status != models.DraftStatusPublished {
		return NewValidationError(
			"validateListDraftsRequest",
			"INVALID_STATUS",
			fmt.Sprintf("invalid status '%s'", *req.Status),
			ErrInvalidStatus,
		)
	}

	return nil
}

// Delete soft-deletes a draft by its ID.
func (d *Draft) Delete(ctx context.Context, id string) error {
	existing, err := d.FetchByID(ctx, id)
	if err != nil {
		return err
	}

	err = d.persistence.Drafts().Delete(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}
