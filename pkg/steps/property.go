package steps

import (
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/validation"
)

// Property returns the step registry for the property listing flow.
//
// The amenities step only applies to residential listings and the commercial
// profile only to commercial ones. When a user flips the category after
// filling one of them, the hidden step is skipped in navigation but its
// fields stay in the form data: losing entered data is worse than carrying
// stale unused keys.
func Property() *Registry {
	return NewRegistry(models.DraftTypeProperty,
		&Definition{
			ID:          "basic_details",
			DisplayName: "Basic Details",
			Order:       10,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.PropertyBasics{} },
			Fields:      []string{"title", "listing_type", "property_category", "property_kind", "description"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"title":             {Type: "string"},
					"listing_type":      {Type: "string", Enum: []any{"sale", "rent"}},
					"property_category": {Type: "string", Enum: []any{"residential", "commercial"}},
					"property_kind":     {Type: "string"},
					"description":       {Type: "string"},
				},
			},
		},
		&Definition{
			ID:          "location",
			DisplayName: "Location",
			Order:       20,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.PropertyLocation{} },
			Fields:      []string{"city", "locality", "address", "pincode", "latitude", "longitude"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"city":      {Type: "string"},
					"locality":  {Type: "string"},
					"address":   {Type: "string"},
					"pincode":   {Type: "string", Pattern: "^[1-9][0-9]{5}$"},
					"latitude":  {Type: "number"},
					"longitude": {Type: "number"},
				},
			},
		},
		&Definition{
			ID:          "property_profile",
			DisplayName: "Property Profile",
			Order:       30,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.PropertyProfile{} },
			Fields: []string{
				"bedrooms", "bathrooms", "carpet_area", "super_area", "floor_number",
				"total_floors", "possession_status", "expected_completion", "furnishing",
			},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"bedrooms":            {Type: "integer"},
					"bathrooms":           {Type: "integer"},
					"carpet_area":         {Type: "number"},
					"super_area":          {Type: "number"},
					"floor_number":        {Type: "integer"},
					"total_floors":        {Type: "integer"},
					"possession_status":   {Type: "string", Enum: []any{"ready_to_move", "under_construction"}},
					"expected_completion": {Type: "string"},
					"furnishing":          {Type: "string"},
				},
			},
		},
		&Definition{
			ID:          "commercial_profile",
			DisplayName: "Commercial Profile",
			Order:       35,
			Category:    CategoryOptional,
			VisibleWhen: func(form models.FormData) bool {
				return form.String("property_category") == "commercial"
			},
			Schema: func() any { return &validation.CommercialProfile{} },
			Fields: []string{"cabin_count", "washroom_count", "pantry_available"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"cabin_count":      {Type: "integer"},
					"washroom_count":   {Type: "integer"},
					"pantry_available": {Type: "boolean"},
				},
			},
		},
		&Definition{
			ID:          "pricing",
			DisplayName: "Pricing",
			Order:       40,
			Category:    CategoryCore,
			Schema:      func() any { return &validation.PropertyPricing{} },
			Fields:      []string{"base_price", "max_price", "price_negotiable", "maintenance_monthly"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"base_price":          {Type: "number"},
					"max_price":           {Type: "number"},
					"price_negotiable":    {Type: "boolean"},
					"maintenance_monthly": {Type: "number"},
				},
			},
		},
		&Definition{
			ID:          "amenities",
			DisplayName: "Amenities",
			Order:       50,
			Category:    CategoryOptional,
			VisibleWhen: func(form models.FormData) bool {
				return form.String("property_category") == "residential"
			},
			Schema: func() any { return &validation.PropertyAmenities{} },
			Fields: []string{"amenities", "parking_spots"},
			DataSchema: &models.JSONSchema{
				Type: "object",
				Properties: map[string]*models.Property{
					"amenities":     {Type: "array", Items: &models.Property{Type: "string"}},
					"parking_spots": {Type: "integer"},
				},
			},
		},
		reviewStep(),
	)
}

// reviewStep is the terminal read-only stage shared by every flow. It owns
// no fields and has no validator.
func reviewStep() *Definition {
	return &Definition{
		ID:          "review",
		DisplayName: "Review & Submit",
		Order:       100,
		Category:    CategoryCore,
	}
}
