package models

import "encoding/json"

// FormData is the accumulated field values of a wizard session, keyed by
// field name. Values are whatever JSON produced: string, float64, bool,
// nested map, or array.
type FormData map[string]any

// String returns the value for key when it is a string, otherwise "".
func (f FormData) String(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}

	return ""
}

// Number returns the value for key coerced to float64. JSON numbers decode
// as float64; ints stored programmatically are coerced too.
func (f FormData) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}

		return n, true
	default:
		return 0, false
	}
}

// Bool returns the value for key when it is a bool, otherwise false.
func (f FormData) Bool(key string) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}

	return false
}

// Has reports whether key is present, regardless of its value.
func (f FormData) Has(key string) bool {
	_, ok := f[key]

	return ok
}

// Clone returns a deep copy so in-flight consumers are isolated from later
// mutations.
func (f FormData) Clone() FormData {
	if f == nil {
		return FormData{}
	}

	clone := make(FormData, len(f))
	for k, v := range f {
		clone[k] = cloneValue(v)
	}

	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = cloneValue(inner)
		}

		return m
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = cloneValue(inner)
		}

		return s
	default:
		return val
	}
}
