// Model response interpretation.
//
// The interpreter turns raw model output into a (thought, tool_call) pair.
// It is lenient where recovery is safe (missing thought, fences, role
// labels, an unwrapped tool-call object) and strict where it is not: a
// response with no tool_call is a failure the loop must feed back.

package agent

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/internal/jsonextract"
)

// ParseResult is the successful outcome of interpreting a model response.
// ToolCall is raw JSON: shape validation (object, name present) is the
// reasoning loop's responsibility before dispatch.
type ParseResult struct {
	Thought  string
	ToolCall json.RawMessage
}

// ParseError describes why a model response could not be interpreted.
type ParseError struct {
	// Reason is the diagnostic, e.g. "missing tool_call".
	Reason string

	// Preview is a bounded excerpt of the offending text.
	Preview string

	// PresentKeys lists the top-level keys that were found, when the
	// response parsed as an object but lacked a required field.
	PresentKeys []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure: %s", e.Reason)
}

// Interpret parses raw model output into a ParseResult.
func Interpret(raw string) (ParseResult, *ParseError) {
	extracted, err := jsonextract.Extract(raw)
	if err != nil {
		return ParseResult{}, &ParseError{
			Reason:  err.Error(),
			Preview: jsonextract.Preview(raw),
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extracted), &fields); err != nil {
		return ParseResult{}, &ParseError{
			Reason:  fmt.Sprintf("extracted text is not a JSON object: %v", err),
			Preview: jsonextract.Preview(extracted),
		}
	}

	result := ParseResult{ToolCall: fields["tool_call"]}

	if rawThought, ok := fields["thought"]; ok {
		var thought string
		if err := json.Unmarshal(rawThought, &thought); err == nil {
			result.Thought = thought
		}
	}

	if result.ToolCall == nil {
		// The model sometimes emits the inner tool-call object at the top
		// level. Accept it when it looks like one.
		if _, hasName := fields["name"]; hasName {
			if _, hasArgs := fields["args"]; hasArgs {
				result.ToolCall = json.RawMessage(extracted)
				if result.Thought == "" {
					result.Thought = "[Tool call provided directly]"
				}
				return result, nil
			}
		}
		return ParseResult{}, &ParseError{
			Reason:      "missing tool_call",
			Preview:     jsonextract.Preview(extracted),
			PresentKeys: sortedKeys(fields),
		}
	}

	if result.Thought == "" {
		result.Thought = synthesizeThought(result.ToolCall)
	}

	return result, nil
}

// synthesizeThought builds a default thought, naming the tool when the
// tool_call carries a usable name.
func synthesizeThought(toolCall json.RawMessage) string {
	var probe struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(toolCall, &probe); err == nil && probe.Name != "" {
		return fmt.Sprintf("Proceeding with %s tool call.", probe.Name)
	}
	return "Continuing with the task."
}

func sortedKeys(fields map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// jsonTypeName names the JSON type of a raw value for error messages.
func jsonTypeName(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
