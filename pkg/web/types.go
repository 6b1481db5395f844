// Package web provides HTTP request and response types for the drafts API.
package web

import "github.com/atriumhq/atrium/pkg/models"

// CreateDraftRequest represents the request body for creating a new draft.
// The body carries only the type; the data document starts empty and the id
// is assigned server-side.
type CreateDraftRequest struct {
	DraftType models.DraftType `json:"draft_type" validate:"required,oneof=PROPERTY PROJECT DEVELOPER"`
	Owner     string           `json:"owner"      validate:"omitempty,max=255"`
}

// UpdateDraftRequest represents the request body for a draft update. The data
// document is merged into the stored one; keys absent from the payload are
// preserved.
type UpdateDraftRequest struct {
	Data   models.FormData     `json:"draft_data"             validate:"required"`
	Status *models.DraftStatus `json:"draft_status,omitempty" validate:"omitempty,oneof=draft published"`
}

// StepResponse is the serializable view of a wizard step definition.
type StepResponse struct {
	ID          string             `json:"id"`
	DisplayName string             `json:"display_name"`
	Order       int                `json:"order"`
	Category    string             `json:"category"`
	Conditional bool               `json:"conditional"`
	Fields      []string           `json:"fields,omitempty"`
	DataSchema  *models.JSONSchema `json:"data_schema,omitempty"`
}

// SchemasResponse describes one draft type's wizard: its step definitions and
// the composed document schema used for shape checks.
type SchemasResponse struct {
	DraftType  models.DraftType   `json:"draft_type"`
	Steps      []StepResponse     `json:"steps"`
	DataSchema *models.JSONSchema `json:"data_schema"`
}
