package schemas

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalCatalog builds the smallest document the catalog schema accepts.
func minimalCatalog() map[string]any {
	var intermediate, final []map[string]any
	for i := 1; i <= 16; i++ {
		intermediate = append(intermediate, map[string]any{"id": i, "name": fmt.Sprintf("it-%d", i)})
	}
	for i := 1; i <= 32; i++ {
		final = append(final, map[string]any{"id": i, "name": fmt.Sprintf("ft-%d", i)})
	}
	return map[string]any{
		"version": "v1",
		"categories": []map[string]any{
			{"id": 1, "name": "마음"},
			{"id": 2, "name": "일상"},
			{"id": 3, "name": "여유"},
		},
		"main_keywords":      []any{},
		"sub_keywords":       []any{},
		"intermediate_types": intermediate,
		"final_types":        final,
		"scores":             []any{},
		"combinations": []map[string]any{
			{"intermediate_type_ids": []int{3, 7, 3}, "final_type_id": 5},
		},
		"weights": []map[string]any{
			{"rank": 1, "weight": 0.4},
			{"rank": 2, "weight": 0.3},
			{"rank": 3, "weight": 0.2},
		},
	}
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestValidateCatalog_Valid(t *testing.T) {
	err := ValidateCatalog(marshal(t, minimalCatalog()))
	assert.NoError(t, err)
}

func TestValidateCatalog_WeightsOptional(t *testing.T) {
	doc := minimalCatalog()
	delete(doc, "weights")

	assert.NoError(t, ValidateCatalog(marshal(t, doc)))
}

func TestValidateCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
	}{
		{
			name:   "missing combinations",
			mutate: func(doc map[string]any) { delete(doc, "combinations") },
		},
		{
			name: "two categories",
			mutate: func(doc map[string]any) {
				doc["categories"] = []map[string]any{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}}
			},
		},
		{
			name: "intermediate id out of range in combination",
			mutate: func(doc map[string]any) {
				doc["combinations"] = []map[string]any{{"intermediate_type_ids": []int{17}, "final_type_id": 1}}
			},
		},
		{
			name: "weight rank 4",
			mutate: func(doc map[string]any) {
				doc["weights"] = []map[string]any{{"rank": 4, "weight": 0.1}}
			},
		},
		{
			name: "score is a string",
			mutate: func(doc map[string]any) {
				doc["scores"] = []map[string]any{{"sub_keyword_id": 1, "intermediate_type_id": 1, "score": "high"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := minimalCatalog()
			tt.mutate(doc)

			err := ValidateCatalog(marshal(t, doc))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidateCatalog_MalformedJSON(t *testing.T) {
	err := ValidateCatalog([]byte("{ invalid json }"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "categories", Message: "Array must have at least 3 items"},
			{Field: "weights.0.rank", Message: "Must be less than or equal to 3"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. categories")
	assert.Contains(t, errorMsg, "2. weights.0.rank")
}

func TestSchemaLoadError_Unwrap(t *testing.T) {
	err := &SchemaLoadError{Path: "catalog.schema.json", Message: "bad", Cause: assert.AnError}
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "catalog.schema.json")
}
