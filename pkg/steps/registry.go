// Package steps defines the wizard step registries. A registry is static
// configuration; the authoritative step sequence at any moment is the
// filtered-and-sorted visible list derived from it, because several steps are
// conditional on earlier answers.
package steps

import (
	"fmt"
	"sort"

	"github.com/atriumhq/atrium/pkg/models"
)

// Category tags whether a step is part of the core flow or optional.
type Category string

const (
	CategoryCore     Category = "core"
	CategoryOptional Category = "optional"
)

// Definition describes one wizard step. Definitions are immutable data; the
// wizard session never mutates them.
type Definition struct {
	ID          string
	DisplayName string
	Order       int
	Category    Category

	// VisibleWhen decides whether the step applies given the accumulated
	// form data. nil means always visible. Predicates must be pure.
	VisibleWhen func(models.FormData) bool

	// Schema returns a fresh pointer to the step's validation schema
	// struct, or nil for steps without fields (the review stage).
	Schema func() any

	// Fields lists the form-data keys the step owns, in display order.
	// Used by the review summary and the composed data schema.
	Fields []string

	// DataSchema declares the JSON shape of the step's fields for the
	// server-side shape check.
	DataSchema *models.JSONSchema
}

// Visible reports whether the step applies to the given form data.
func (d *Definition) Visible(form models.FormData) bool {
	if d.VisibleWhen == nil {
		return true
	}

	return d.VisibleWhen(form)
}

// Registry is an ordered set of step definitions for one draft type.
type Registry struct {
	draftType models.DraftType
	defs      []*Definition
}

// NewRegistry creates a registry. Definitions may be passed in any order;
// visibility resolution sorts by Order.
func NewRegistry(draftType models.DraftType, defs ...*Definition) *Registry {
	return &Registry{draftType: draftType, defs: defs}
}

// DraftType returns the draft type this registry belongs to.
func (r *Registry) DraftType() models.DraftType {
	return r.draftType
}

// Definitions returns the full static definition list, hidden steps included.
func (r *Registry) Definitions() []*Definition {
	return r.defs
}

// Visible resolves the authoritative step sequence for the given form data:
// definitions whose predicate passes, sorted by Order. It is a pure function
// of its input and must stay that way; navigation decisions recompute it
// rather than caching a stale copy.
func (r *Registry) Visible(form models.FormData) []*Definition {
	visible := make([]*Definition, 0, len(r.defs))

	for _, def := range r.defs {
		if def.Visible(form) {
			visible = append(visible, def)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})

	return visible
}

// StepAt returns the visible step at index, or nil when the index is out of
// range. Callers render a fallback for nil, never crash.
func (r *Registry) StepAt(index int, form models.FormData) *Definition {
	visible := r.Visible(form)
	if index < 0 || index >= len(visible) {
		return nil
	}

	return visible[index]
}

// Count returns the number of currently visible steps.
func (r *Registry) Count(form models.FormData) int {
	return len(r.Visible(form))
}

// IndexByID translates a step's stable identity into its current index in
// the visible list, or -1 when the step is unknown or hidden. Conditional
// steps mean the index for a given id is not fixed across a session, so the
// lookup is always resolved lazily at the moment of navigation.
func (r *Registry) IndexByID(id string, form models.FormData) int {
	for i, def := range r.Visible(form) {
		if def.ID == id {
			return i
		}
	}

	return -1
}

// ByID returns the definition with the given id regardless of visibility.
func (r *Registry) ByID(id string) *Definition {
	for _, def := range r.defs {
		if def.ID == id {
			return def
		}
	}

	return nil
}

// DataSchema composes every step's declared field shapes into one document
// schema. Required lists are not composed: requiredness is per step and
// enforced by the validators, while the composed schema only shape-checks
// keys the registry knows about.
func (r *Registry) DataSchema() *models.JSONSchema {
	composed := &models.JSONSchema{
		Type:  "object",
		Title: string(r.draftType) + " draft data",
	}

	for _, def := range r.defs {
		composed.MergeProperties(def.DataSchema)
	}

	return composed
}

// ForType returns the step registry for a draft type.
func ForType(t models.DraftType) (*Registry, error) {
	switch t {
	case models.DraftTypeProperty:
		return Property(), nil
	case models.DraftTypeProject:
		return Project(), nil
	case models.DraftTypeDeveloper:
		return Developer(), nil
	default:
		return nil, fmt.Errorf("no step registry for draft type %q", t)
	}
}
