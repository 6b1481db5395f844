package models

// JSONSchema describes the shape a wizard step expects from its slice of the
// form data. Step schemas are composed into a single document schema for the
// server-side shape check on draft updates.
type JSONSchema struct {
	Type        string               `json:"type"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
}

// Property represents a single JSON Schema property.
type Property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Default     any                  `json:"default,omitempty"`
	Format      string               `json:"format,omitempty"`
	Minimum     *float64             `json:"minimum,omitempty"`
	MinLength   *int                 `json:"minLength,omitempty"`
	MaxLength   *int                 `json:"maxLength,omitempty"`
	Pattern     string               `json:"pattern,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// MergeProperties copies the properties of other into s, overwriting on key
// collision. Required lists are deliberately not merged: requiredness is
// enforced per step by the validators, not by the composed document schema.
func (s *JSONSchema) MergeProperties(other *JSONSchema) {
	if other == nil {
		return
	}

	if s.Properties == nil {
		s.Properties = make(map[string]*Property, len(other.Properties))
	}

	for name, prop := range other.Properties {
		s.Properties[name] = prop
	}
}
