// Package attrs normalizes company-defined custom attribute bags into the
// scalar-only form the demographic data model stores.
package attrs

import "encoding/json"

// Normalize filters an open-ended preferences map down to scalar values.
// Strings, booleans and numbers pass through; json.Number is converted to
// float64 for a uniform numeric representation; nested objects, arrays
// and nil values are dropped. Returns nil when nothing survives so empty
// bags stay absent rather than empty.
func Normalize(preferences map[string]any) map[string]any {
	if len(preferences) == 0 {
		return nil
	}

	out := make(map[string]any, len(preferences))
	for key, value := range preferences {
		if key == "" {
			continue
		}
		scalar, ok := asScalar(value)
		if !ok {
			continue
		}
		out[key] = scalar
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// IsScalar reports whether a value is storable as a custom attribute.
func IsScalar(value any) bool {
	_, ok := asScalar(value)
	return ok
}

func asScalar(value any) (any, bool) {
	switch typed := value.(type) {
	case string, bool:
		return typed, true
	case float64, float32:
		return typed, true
	case int, int8, int16, int32, int64:
		return typed, true
	case uint, uint8, uint16, uint32, uint64:
		return typed, true
	case json.Number:
		if parsed, err := typed.Float64(); err == nil {
			return parsed, true
		}
		return typed.String(), true
	default:
		return nil, false
	}
}
