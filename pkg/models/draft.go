// Package models defines the core domain models for listing drafts.
package models

import "time"

// DraftType selects which wizard step registry applies to a draft.
type DraftType string

const (
	DraftTypeProperty  DraftType = "PROPERTY"
	DraftTypeProject   DraftType = "PROJECT"
	DraftTypeDeveloper DraftType = "DEVELOPER"
)

// DraftTypes lists every supported draft type.
func DraftTypes() []DraftType {
	return []DraftType{DraftTypeProperty, DraftTypeProject, DraftTypeDeveloper}
}

// Valid reports whether t is a known draft type.
func (t DraftType) Valid() bool {
	switch t {
	case DraftTypeProperty, DraftTypeProject, DraftTypeDeveloper:
		return true
	default:
		return false
	}
}

// DraftStatus represents the lifecycle state of a draft.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"     // Editable work in progress
	DraftStatusPublished DraftStatus = "published" // Finalized, no longer editable through the wizard
)

// Draft is the persisted unit of work-in-progress for a listing.
//
// The ID is server-assigned and immutable once set; clients never invent one.
// Data is an open-ended accumulator: each wizard step only adds or overwrites
// the keys it owns, keys belonging to other steps are never removed.
type Draft struct {
	ID          string      `json:"draft_id"`
	Type        DraftType   `json:"draft_type"             validate:"required,oneof=PROPERTY PROJECT DEVELOPER"`
	Status      DraftStatus `json:"draft_status"           validate:"required,oneof=draft published"`
	Owner       string      `json:"owner"`
	Data        FormData    `json:"draft_data"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty"`
}

// Editable reports whether the draft can still be modified through the wizard.
func (d *Draft) Editable() bool {
	return d.Status == DraftStatusDraft
}

// DraftSummary is the condensed representation returned by listing screens.
type DraftSummary struct {
	ID        string      `json:"draft_id"`
	Type      DraftType   `json:"draft_type"`
	Status    DraftStatus `json:"draft_status"`
	Title     string      `json:"title,omitempty"`
	Owner     string      `json:"owner,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Summary extracts the listing-screen view of a draft. The title is pulled
// from the form data when present.
func (d *Draft) Summary() DraftSummary {
	return DraftSummary{
		ID:        d.ID,
		Type:      d.Type,
		Status:    d.Status,
		Title:     d.Data.String("title"),
		Owner:     d.Owner,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
