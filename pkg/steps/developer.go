package steps

import (
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/validation"
)

// Developer returns the step registry for the developer onboarding flow.
// The portfolio step only applies to company-type developers.
func Developer() *Registry {
	return NewRegistry(models.DraftTypeDeveloper,
		&Definition{
			ID:          "developer_profile",
			DisplayName: "Developer Profile",
			Order:       10,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.DeveloperProfile{} },
			Fields:      []string{"developer_name", "developer_type", "pan", "years_active", "about"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"developer_name": {Type: "string"},
					"developer_type": {Type: "string", Enum: []any{"individual", "company"}},
					"pan":            {Type: "string", Pattern: "^[A-Z]{5}[0-9]{4}[A-Z]$"},
					"years_active":   {Type: "integer"},
					"about":          {Type: "string"},
				},
			},
		},
		&Definition{
			ID:          "portfolio",
			DisplayName: "Portfolio",
			Order:       20,
			Category:    CategoryOptional,
			VisibleWhen: func(form models.FormData) bool {
				return form.String("developer_type") == "company"
			},
			Schema: func() any { return &validation.DeveloperPortfolio{} },
			Fields: []string{"projects_completed", "projects_ongoing", "cities"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"projects_completed": {Type: "integer"},
					"projects_ongoing":   {Type: "integer"},
					"cities":             {Type: "array", Items: &models.Property{Type: "string"}},
				},
			},
		},
		&Definition{
			ID:          "contact_details",
			DisplayName: "Contact Details",
			Order:       30,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.DeveloperContact{} },
			Fields:      []string{"contact_name", "phone", "email", "website"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"contact_name": {Type: "string"},
					"phone":        {Type: "string", Pattern: "^[6-9][0-9]{9}$"},
					"email":        {Type: "string", Format: "email"},
					"website":      {Type: "string"},
				},
			},
		},
		reviewStep(),
	)
}
