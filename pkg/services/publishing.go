// Package services provides draft publishing with full-document validation.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/otelhelper"
	"github.com/atriumhq/atrium/pkg/persistence"
	"github.com/atriumhq/atrium/pkg/steps"
	"github.com/atriumhq/atrium/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Publishing handles the draft-to-published transition. Publishing is the
// hardened gate: the client wizard only disables its continue button on
// invalid fields, so the full document is re-validated here with the same
// step schemas before the status flip.
type Publishing struct {
	persistence persistence.Persistence
	validator   *validation.Validator
	tracer      trace.Tracer
}

// NewPublishing creates a new publishing service. The tracer may be nil.
func NewPublishing(persistence persistence.Persistence, tracer trace.Tracer) *Publishing {
	return &Publishing{
		persistence: persistence,
		validator:   validation.New(),
		tracer:      tracer,
	}
}

// PublishDraft validates the full draft document and flips its status to
// published. Already-published drafts conflict; incomplete ones fail
// validation and stay editable.
func (p *Publishing) PublishDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	if p.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, p.tracer, "services.publishing publish",
			attribute.String(otelhelper.DraftIDKey, draftID))
		defer span.End()
	}

	draft, err := p.persistence.Drafts().GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	if draft == nil {
		return nil, ErrDraftNotFound
	}

	if !draft.Editable() {
		return nil, NewValidationError(
			"PublishDraft",
			"DRAFT_PUBLISHED",
			fmt.Sprintf("draft '%s' is already published", draftID),
			ErrDraftAlreadyPublished,
		)
	}

	if err := p.validateForPublishing(draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	draft.Status = models.DraftStatusPublished
	draft.PublishedAt = &now

	if err := p.persistence.Drafts().Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to publish draft: %w", err)
	}

	return draft, nil
}

// validateForPublishing runs every visible step's validation schema over the
// draft document. Hidden branch steps are skipped; their orphaned fields may
// remain in the data but are not validated.
func (p *Publishing) validateForPublishing(draft *models.Draft) error {
	registry, err := steps.ForType(draft.Type)
	if err != nil {
		return fmt.Errorf("failed to resolve step registry: %w", err)
	}

	var failures []string

	for _, def := range registry.Visible(draft.Data) {
		if def.Schema == nil {
			continue
		}

		result := p.validator.CheckData(draft.Data, def.Schema())
		if result.Valid() {
			continue
		}

		for _, fieldError := range result.Errors {
			failures = append(failures, fmt.Sprintf("%s.%s: %s", def.ID, fieldError.Field, fieldError.Message))
		}
	}

	if len(failures) > 0 {
		return NewValidationError(
			"PublishDraft",
			"DRAFT_INCOMPLETE",
			strings.Join(failures, "; "),
			ErrDraftIncomplete,
		)
	}

	return nil
}
