// Package tools provides the tool system for agents.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Tool parameters and schemas hidden in implementations
// - Registry implementation details hidden from consumers
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ParamSpec describes a single tool parameter.
type ParamSpec struct {
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description" yaml:"description"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// Tool is the interface that all tools must implement.
//
// Execute returns the observation on success, or an error describing the
// failure. Success and failure are explicit in the return value; callers
// never infer failure from the observation text.
type Tool interface {
	// Name returns the tool's unique name.
	Name() string

	// Description explains what the tool does (rendered into prompts).
	Description() string

	// ParameterSchema describes the tool's parameters by name.
	ParameterSchema() map[string]ParamSpec

	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ValidationError marks an argument-schema violation, as opposed to an
// execution failure. The dispatcher renders the two differently.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Validationf creates a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ValidateArgs checks args against the schema: required parameters must be
// present, types must match, and absent optional parameters receive their
// defaults. Returns a new map; the input is not mutated.
func ValidateArgs(schema map[string]ParamSpec, args map[string]any) (map[string]any, error) {
	validated := make(map[string]any, len(args))
	for k, v := range args {
		validated[k] = v
	}

	// Deterministic order so error messages are stable.
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := schema[name]
		value, present := validated[name]

		if !present {
			if spec.Required {
				return nil, Validationf("Required parameter '%s' is missing.", name)
			}
			if spec.Default != nil {
				validated[name] = spec.Default
			}
			continue
		}

		if !typeMatches(value, spec.Type) {
			return nil, Validationf("Parameter '%s' has wrong type. Expected %s, got %s.",
				name, spec.Type, typeName(value))
		}
	}

	return validated, nil
}

// typeMatches checks a JSON-decoded value against a schema type name.
// Unknown type names skip validation.
func typeMatches(value any, expected string) bool {
	switch strings.ToLower(expected) {
	case "str", "string":
		_, ok := value.(string)
		return ok
	case "int":
		switch v := value.(type) {
		case int:
			return true
		case float64:
			return v == float64(int64(v))
		default:
			return false
		}
	case "float", "number":
		switch value.(type) {
		case float64, int:
			return true
		default:
			return false
		}
	case "bool":
		_, ok := value.(bool)
		return ok
	case "list", "array":
		_, ok := value.([]any)
		return ok
	case "dict", "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", value)
	}
}
