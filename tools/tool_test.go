package tools

import (
	"context"
	"strings"
	"testing"
)

// fakeTool is a configurable test double.
type fakeTool struct {
	name        string
	description string
	schema      map[string]ParamSpec
	execute     func(ctx context.Context, args map[string]any) (string, error)
}

func (t *fakeTool) Name() string                          { return t.name }
func (t *fakeTool) Description() string                   { return t.description }
func (t *fakeTool) ParameterSchema() map[string]ParamSpec { return t.schema }

func (t *fakeTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if t.execute != nil {
		return t.execute(ctx, args)
	}
	return "ok", nil
}

func TestValidateArgsRequiredMissing(t *testing.T) {
	schema := map[string]ParamSpec{
		"query": {Type: "string", Required: true},
	}

	_, err := ValidateArgs(schema, map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing required parameter")
	}
	if !strings.Contains(err.Error(), "Required parameter 'query' is missing.") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidateArgsWrongType(t *testing.T) {
	schema := map[string]ParamSpec{
		"limit": {Type: "int", Required: true},
	}

	_, err := ValidateArgs(schema, map[string]any{"limit": "ten"})
	if err == nil {
		t.Fatal("expected error for wrong type")
	}
	if !strings.Contains(err.Error(), "Parameter 'limit' has wrong type. Expected int, got string.") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidateArgsAppliesDefaults(t *testing.T) {
	schema := map[string]ParamSpec{
		"method": {Type: "string", Required: false, Default: "GET"},
		"url":    {Type: "string", Required: true},
	}

	args := map[string]any{"url": "https://example.com"}
	validated, err := ValidateArgs(schema, args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validated["method"] != "GET" {
		t.Errorf("expected default method GET, got %v", validated["method"])
	}

	// Input map must not be mutated.
	if _, present := args["method"]; present {
		t.Error("input map was mutated")
	}
}

func TestValidateArgsJSONNumbers(t *testing.T) {
	schema := map[string]ParamSpec{
		"limit": {Type: "int", Required: true},
	}

	// JSON decoding produces float64 for all numbers.
	if _, err := ValidateArgs(schema, map[string]any{"limit": float64(10)}); err != nil {
		t.Errorf("whole float64 should satisfy int: %v", err)
	}
	if _, err := ValidateArgs(schema, map[string]any{"limit": 10.5}); err == nil {
		t.Error("fractional float64 should not satisfy int")
	}
}

func TestValidateArgsExtraArgsPassThrough(t *testing.T) {
	schema := map[string]ParamSpec{
		"query": {Type: "string", Required: true},
	}

	validated, err := ValidateArgs(schema, map[string]any{
		"query": "select 1",
		"extra": true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validated["extra"] != true {
		t.Error("extra argument should pass through unchanged")
	}
}

func TestValidateArgsListAndDictTypes(t *testing.T) {
	schema := map[string]ParamSpec{
		"tables":  {Type: "list", Required: false},
		"options": {Type: "dict", Required: false},
	}

	_, err := ValidateArgs(schema, map[string]any{
		"tables":  []any{"users"},
		"options": map[string]any{"verbose": true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateArgs(schema, map[string]any{"tables": "users"}); err == nil {
		t.Error("string should not satisfy list")
	}
}
