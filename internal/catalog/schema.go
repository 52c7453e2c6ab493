package catalog

import "github.com/abhisek/outlines/internal/api"

// Schema describes a standards catalog document.
var Schema = &api.Schema{
	Name: "standards-catalog",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"version", "standards"},
		"properties": map[string]any{
			"version": map[string]any{"type": "string", "pattern": `^v\d+\.\d+\.\d+$`},
			"standards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"id", "discipline", "title", "minimum_units"},
					"properties": map[string]any{
						"id":                   map[string]any{"type": "string", "minLength": 1},
						"discipline":           map[string]any{"type": "string", "minLength": 1},
						"title":                map[string]any{"type": "string", "minLength": 1},
						"descriptor":           map[string]any{"type": "string"},
						"minimum_units":        map[string]any{"type": "number", "exclusiveMinimum": 0},
						"slo_requirements":     nonEmptyStrings,
						"content_requirements": nonEmptyStrings,
					},
				},
			},
		},
	},
}

var nonEmptyStrings = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string", "minLength": 1},
}
