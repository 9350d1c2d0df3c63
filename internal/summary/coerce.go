package summary

import (
	"fmt"
	"strings"
)

// Coerce brings a flattened summary into canonical form: absent list fields
// become empty arrays, absent scalar fields become explicit nulls, and a
// notes_for_client array collapses into a single string. Unknown keys pass
// through untouched. It does not type-check; that is Validate's job.
func Coerce(flattened map[string]any) map[string]any {
	out := make(map[string]any, len(flattened))
	for k, v := range flattened {
		out[k] = v
	}

	for _, field := range ListFields {
		if v, ok := out[field]; !ok || v == nil {
			out[field] = []any{}
		}
	}
	for _, field := range ScalarFields {
		if _, ok := out[field]; !ok {
			out[field] = nil
		}
	}

	if items, ok := out["notes_for_client"].([]any); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		out["notes_for_client"] = strings.Join(parts, "\n\n")
	}
	return out
}

// Normalize is the full pipeline from parsed model output to a stored summary:
// flatten nested groups, apply defaults, then validate the shape.
func Normalize(parsed map[string]any) (map[string]any, error) {
	coerced := Coerce(Flatten(parsed))
	if err := Validate(coerced); err != nil {
		return nil, err
	}
	return coerced, nil
}
