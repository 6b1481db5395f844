package steps

import (
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/validation"
)

// Project returns the step registry for the project listing flow. The
// phasing step only applies to projects declared multi-phase on the first
// step.
func Project() *Registry {
	return NewRegistry(models.DraftTypeProject,
		&Definition{
			ID:          "project_details",
			DisplayName: "Project Details",
			Order:       10,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.ProjectBasics{} },
			Fields:      []string{"title", "project_type", "multi_phase", "rera_id", "description"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"title":        {Type: "string"},
					"project_type": {Type: "string", Enum: []any{"residential", "commercial", "mixed_use"}},
					"multi_phase":  {Type: "boolean"},
					"rera_id":      {Type: "string"},
					"description":  {Type: "string"},
				},
			},
		},
		&Definition{
			ID:          "location",
			DisplayName: "Location",
			Order:       20,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.ProjectLocation{} },
			Fields:      []string{"city", "locality", "pincode", "land_area_acre"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"city":           {Type: "string"},
					"locality":       {Type: "string"},
					"pincode":        {Type: "string", Pattern: "^[1-9][0-9]{5}$"},
					"land_area_acre": {Type: "number"},
				},
			},
		},
		&Definition{
			ID:          "units_pricing",
			DisplayName: "Units & Pricing",
			Order:       30,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.ProjectUnits{} },
			Fields:      []string{"unit_types", "price_from", "price_to", "possession_status", "expected_completion"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"unit_types":          {Type: "array", Items: &models.Property{Type: "string"}},
					"price_from":          {Type: "number"},
					"price_to":            {Type: "number"},
					"possession_status":   {Type: "string", Enum: []any{"ready_to_move", "under_construction"}},
					"expected_completion": {Type: "string"},
				},
			},
		},
		&Definition{
			ID:          "phases",
			DisplayName: "Phases",
			Order:       40,
			Category:    CategoryOptional,
			VisibleWhen: func(form models.FormData) bool {
				return form.Bool("multi_phase")
			},
			Schema: func() any { return &validation.ProjectPhases{} },
			Fields: []string{"phase_count", "current_phase"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"phase_count":   {Type: "integer"},
					"current_phase": {Type: "integer"},
				},
			},
		},
		reviewStep(),
	)
}
