// Package web provides HTTP handlers and REST API endpoints for draft management.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/atriumhq/atrium/pkg/eventbus"
	"github.com/atriumhq/atrium/pkg/events"
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/services"
	"github.com/atriumhq/atrium/pkg/steps"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	draftService      *services.Draft
	publishingService *services.Publishing
	validator         *validator.Validate
	eventBus          eventbus.EventBus
	logger            *slog.Logger
}

func NewAPIHandlers(
	draftService *services.Draft,
	publishingService *services.Publishing,
	validator *validator.Validate,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		draftService:      draftService,
		publishingService: publishingService,
		validator:         validator,
		eventBus:          eventBus,
		logger:            logger,
	}
}

// publishEvent emits a lifecycle event after a successful mutation. Delivery
// is best-effort and never gates the HTTP response.
func (h *APIHandlers) publishEvent(ctx context.Context, draft *models.Draft, event eventbus.Event) {
	if h.eventBus == nil {
		return
	}

	if err := h.eventBus.Publish(ctx, draft.ID, event); err != nil {
		h.logger.WarnContext(ctx, "Failed to publish draft event",
			"event_type", event.GetType(), "draft_id", draft.ID, "error", err)
	}
}

func (h *APIHandlers) baseEvent(draft *models.Draft, eventType events.EventType) events.BaseEvent {
	id := ""
	if h.eventBus != nil {
		id = h.eventBus.GenerateID()
	}

	return events.BaseEvent{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		DraftID:   draft.ID,
		DraftType: draft.Type,
		Owner:     draft.Owner,
	}
}

func (h *APIHandlers) CreateDraft(c fiber.Ctx) error {
	var req CreateDraftRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	draft, err := h.draftService.Create(c.Context(), req.DraftType, req.Owner)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), draft, events.DraftCreated{
		BaseEvent: h.baseEvent(draft, events.DraftCreatedEvent),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    draft,
	})
}

func (h *APIHandlers) GetDraft(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Draft ID is required")
	}

	draft, err := h.draftService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    draft,
	})
}

func (h *APIHandlers) UpdateDraft(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Draft ID is required")
	}

	var req UpdateDraftRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.draftService.Update(c.Context(), id, req.Data, req.Status)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), updated, events.DraftSaved{
		BaseEvent:  h.baseEvent(updated, events.DraftSavedEvent),
		FieldCount: len(updated.Data),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

func (h *APIHandlers) DeleteDraft(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Draft ID is required")
	}

	draft, err := h.draftService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.draftService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), draft, events.DraftDeleted{
		BaseEvent: h.baseEvent(draft, events.DraftDeletedEvent),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) PublishDraft(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Draft ID is required")
	}

	published, err := h.publishingService.PublishDraft(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), published, events.DraftPublished{
		BaseEvent:   h.baseEvent(published, events.DraftPublishedEvent),
		PublishedAt: *published.PublishedAt,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    published,
	})
}

func (h *APIHandlers) ListDrafts(c fiber.Ctx) error {
	req, err := h.parseListDraftsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.draftService.List(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"data":          result.Drafts,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListDraftsRequest parses and validates query parameters for listing drafts.
func (h *APIHandlers) parseListDraftsRequest(c fiber.Ctx) (*services.ListDraftsRequest, error) {
	req := &services.ListDraftsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.Owner = c.Query("owner")

	if typeStr := c.Query("type"); typeStr != "" {
		draftType := models.DraftType(typeStr)
		req.Type = &draftType
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.DraftStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

// GetSchemas exposes the wizard step definitions and composed data schema for
// a draft type, so clients render and validate from the same source of truth
// the publish gate uses.
func (h *APIHandlers) GetSchemas(c fiber.Ctx) error {
	draftType := models.DraftType(c.Params("type"))

	registry, err := steps.ForType(draftType)
	if err != nil {
		return notFound(c, "Unknown draft type")
	}

	defs := registry.Definitions()
	stepResponses := make([]StepResponse, 0, len(defs))

	for _, def := range defs {
		stepResponses = append(stepResponses, StepResponse{
			ID:          def.ID,
			DisplayName: def.DisplayName,
			Order:       def.Order,
			Category:    string(def.Category),
			Conditional: def.VisibleWhen != nil,
			Fields:      def.Fields,
			DataSchema:  def.DataSchema,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": SchemasResponse{
			DraftType:  draftType,
			Steps:      stepResponses,
			DataSchema: registry.DataSchema(),
		},
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.draftService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Atrium API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Atrium API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
