package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func stringList() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func buildSchemaMap() map[string]any {
	props := map[string]any{}
	for _, f := range ScalarFields {
		props[f] = nullableString()
	}
	for _, f := range ListFields {
		props[f] = stringList()
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		raw, err := json.Marshal(buildSchemaMap())
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("summary.json", bytes.NewReader(raw)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("summary.json")
	})
	return compiledSchema, compileErr
}

// Validate checks a coerced summary against the expected shape. Shape
// mismatches wrap ErrInvalidShape so callers can fall back to a placeholder.
func Validate(coerced map[string]any) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile summary schema: %w", err)
	}
	// The validator only accepts values produced by encoding/json, so round-trip
	// through it to normalize Go-native types like []string.
	raw, err := json.Marshal(coerced)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return nil
}
