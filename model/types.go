// Package model provides domain types shared across packages.
package model

import "encoding/json"

// Message roles used in conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall is a tool invocation request produced by the model.
// Args carries arbitrary JSON-compatible values keyed by parameter name.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Arg returns the named argument and whether it was present.
func (c ToolCall) Arg(name string) (any, bool) {
	if c.Args == nil {
		return nil, false
	}
	v, ok := c.Args[name]
	return v, ok
}

// StringArg returns the named argument as a string, or the fallback if the
// argument is absent or not a string.
func (c ToolCall) StringArg(name, fallback string) string {
	v, ok := c.Arg(name)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// Step records one completed cycle of the reasoning loop: what was attempted
// and what was observed. Error cycles are recorded with a synthetic "error"
// tool call so the model sees a uniform history.
type Step struct {
	Call        ToolCall `json:"tool_call"`
	Observation string   `json:"observation"`
}

// ErrorCall builds the synthetic tool call recorded for a failed cycle.
func ErrorCall(args map[string]any) ToolCall {
	if args == nil {
		args = map[string]any{}
	}
	return ToolCall{Name: "error", Args: args}
}

// MarshalCall serializes a tool call the way it is replayed to the model:
// wrapped in a single-key object. Falls back to a minimal object if
// marshaling fails, which cannot happen with JSON-compatible args.
func MarshalCall(call ToolCall) string {
	payload := struct {
		ToolCall ToolCall `json:"tool_call"`
	}{ToolCall: call}

	data, err := json.Marshal(payload)
	if err != nil {
		return `{"tool_call":{"name":"` + call.Name + `","args":{}}}`
	}
	return string(data)
}
