// Package validation implements the per-step field validators of the listing
// wizard. Each step owns one schema struct; validity of a step is the logical
// AND of every field-level and cross-field rule in its schema. Validators run
// in live mode, on every field change, and only ever gate the continue
// affordance of the step they belong to.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/atriumhq/atrium/pkg/models"
	"github.com/go-playground/validator/v10"
)

// FieldError describes a single violated rule, attributed to a field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result is the outcome of validating one step's slice of the form data.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// Valid reports whether every rule passed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorFor returns the first error attributed to the given field.
func (r Result) ErrorFor(field string) (FieldError, bool) {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe, true
		}
	}

	return FieldError{}, false
}

// Validator validates step schemas. It is safe for concurrent use and should
// be shared: custom rules and struct-level checks are registered once.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the wizard's custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names so errors land next to the field that owns them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	registerFormatRules(v)
	v.RegisterStructValidation(propertyProfileRules, PropertyProfile{})

	return &Validator{validate: v}
}

// Check validates a populated schema struct.
func (v *Validator) Check(schema any) Result {
	err := v.validate.Struct(schema)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []FieldError{{Rule: "internal", Message: err.Error()}}}
	}

	result := Result{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}

	return result
}

// CheckData decodes the step's slice of the form data into schema and
// validates it. schema must be a pointer to a step schema struct. Keys the
// schema does not declare are ignored; they belong to other steps.
func (v *Validator) CheckData(data models.FormData, schema any) Result {
	if err := decode(data, schema); err != nil {
		return Result{Errors: []FieldError{decodeError(err)}}
	}

	return v.Check(schema)
}

// decode round-trips through JSON so form values (which arrive as JSON types)
// land in the schema's typed fields.
func decode(data models.FormData, schema any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode form data: %w", err)
	}

	return json.Unmarshal(raw, schema)
}

// decodeError attributes a type mismatch to the offending field when the
// JSON decoder can name it.
func decodeError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldError{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("must be a %s", typeErr.Type.Kind()),
		}
	}

	return FieldError{Rule: "decode", Message: err.Error()}
}
