package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildSummaryJSONSchema describes the legal-summary object. It is sent to the
// backend as a structured output constraint and used locally to validate.
func BuildSummaryJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	list := map[string]any{"type": "array", "items": str}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"riskLevel":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"riskSummary":  str,
			"contractType": str,
			"parties":      list,
			"highRisks":    list,
			"mediumRisks":  list,
			"lowRisks":     list,
			"dates": map[string]any{
				"type":       "object",
				"properties": map[string]any{"start": str, "end": str},
			},
			"paymentTerms": str,
			"governingLaw": str,
		},
		"required": []string{"riskLevel", "riskSummary"},
	}
}

// ValidateJSONAgainstSchema compiles schema and validates doc against it.
func ValidateJSONAgainstSchema(schema map[string]any, doc []byte) error {
	sb, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("mem://response.schema.json", bytes.NewReader(sb)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := c.Compile("mem://response.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return compiled.Validate(v)
}
