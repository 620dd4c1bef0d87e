package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildBillJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model's response must satisfy. Category is constrained to the canonical
// taxonomy's spelling only loosely (free-form allowed) because the
// normalizer maps wording drift afterwards; structure is what we enforce.
func BuildBillJSONSchema() map[string]any {
	itemSchema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"quantity": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"price":    map[string]any{"type": "number", "minimum": 0.0},
		},
		"required": []string{"name", "price"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"amount":      map[string]any{"type": []string{"number", "string"}},
			"category":    map[string]any{"type": "string", "minLength": 1},
			"date":        map[string]any{"type": "string"},
			"vendor":      map[string]any{"type": "string"},
			"items":       map[string]any{"type": "array", "items": itemSchema},
		},
		"required": []string{"category"},
	}
}

// ValidateJSONAgainstSchema validates data against schemaMap.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
