package web

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// submitWorkoutSchema rejects structurally bad payloads before binding, so a
// client bug (numbers where text belongs, sets outside an exercise) surfaces
// as a clear 400 instead of a half-bound request.
var submitWorkoutSchema = map[string]any{
	"type":     "object",
	"required": []string{"user_id", "title", "weight_unit"},
	"properties": map[string]any{
		"user_id":            map[string]any{"type": "string"},
		"title":              map[string]any{"type": "string"},
		"notes":              map[string]any{"type": "string"},
		"description":        map[string]any{"type": "string"},
		"weight_unit":        map[string]any{"type": "string", "enum": []any{"kg", "lb"}},
		"is_structured_mode": map[string]any{"type": "boolean"},
		"routine_id":         map[string]any{"type": "string"},
		"duration_seconds":   map[string]any{"type": "integer", "minimum": 0},
		"image_ref":          map[string]any{"type": "string"},
		"performed_at":       map[string]any{"type": "string"},
		"exercises": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"name"},
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					"sets": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"weight": map[string]any{"type": "string"},
								"reps":   map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
}

func validateSubmitPayload(body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(submitWorkoutSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("payload validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}
