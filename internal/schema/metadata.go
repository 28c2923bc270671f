package schema

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Limits for the free-form AnalyticsEvent metadata.
const (
	MaxMetadataDepth = 4
	MaxMetadataKeys  = 64
	MaxMetadataBytes = 4096
)

func validMetadata(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	m, ok := field.Interface().(map[string]any)
	if !ok {
		return false
	}
	return MetadataWithinLimits(m)
}

// MetadataWithinLimits reports whether m respects the depth, key count and
// encoded size limits.
func MetadataWithinLimits(m map[string]any) bool {
	keys := 0
	if !walkMetadata(m, 1, &keys) {
		return false
	}
	b, err := json.Marshal(m)
	if err != nil {
		return false
	}
	return len(b) <= MaxMetadataBytes
}

func walkMetadata(v any, depth int, keys *int) bool {
	if depth > MaxMetadataDepth {
		return false
	}
	switch t := v.(type) {
	case map[string]any:
		*keys += len(t)
		if *keys > MaxMetadataKeys {
			return false
		}
		for _, child := range t {
			if isContainer(child) && !walkMetadata(child, depth+1, keys) {
				return false
			}
		}
	case []any:
		for _, child := range t {
			if isContainer(child) && !walkMetadata(child, depth+1, keys) {
				return false
			}
		}
	}
	return true
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
