package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// ValidateRaw validates a JSON document against schema.
// Returns *ErrInvalidResponse on failure.
func ValidateRaw(schema *Schema, raw []byte) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := ValidateValue(schema, parsed); err != nil {
		return &ErrInvalidResponse{Body: raw, Err: err}
	}
	return nil
}

// ValidateValue validates an already decoded value (from JSON or YAML)
// against schema.
func ValidateValue(schema *Schema, v any) error {
	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a generic decoded value, not Go maps with typed
	// slices inside, so round-trip through JSON.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

// MatchResponseSchema describes the body of a match lookup response.
var MatchResponseSchema = &Schema{
	Name: "match-response",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"match"},
		"properties": map[string]any{
			"noMatch": map[string]any{"type": "boolean"},
			"match": map[string]any{
				"oneOf": []any{
					map[string]any{"type": "null"},
					map[string]any{
						"type": "object",
						"required": []string{
							"id", "title", "minimumUnits", "confidence",
							"sloRequirements", "contentRequirements", "unitsSufficient",
						},
						"properties": map[string]any{
							"id":                  map[string]any{"type": "string", "minLength": 1},
							"discipline":          map[string]any{"type": "string"},
							"title":               map[string]any{"type": "string"},
							"descriptor":          map[string]any{"type": "string"},
							"minimumUnits":        map[string]any{"type": "number", "exclusiveMinimum": 0},
							"confidence":          map[string]any{"type": "number", "minimum": 0, "maximum": 1},
							"matchReasons":        stringArray,
							"sloRequirements":     stringArray,
							"contentRequirements": stringArray,
							"unitsSufficient":     map[string]any{"type": "boolean"},
						},
					},
				},
			},
		},
	},
}

var stringArray = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
