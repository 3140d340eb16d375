package agent

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func mustSuccess(t *testing.T, raw string) ParseResult {
	t.Helper()
	result, parseErr := Interpret(raw)
	if parseErr != nil {
		t.Fatalf("Interpret(%q) failed: %v", raw, parseErr)
	}
	return result
}

func toolCallOf(t *testing.T, result ParseResult) map[string]any {
	t.Helper()
	var call map[string]any
	if err := json.Unmarshal(result.ToolCall, &call); err != nil {
		t.Fatalf("tool_call is not an object: %v", err)
	}
	return call
}

func TestInterpretWellFormed(t *testing.T) {
	result := mustSuccess(t, `{"thought":"x","tool_call":{"name":"finish","args":{"answer":"42"}}}`)

	if result.Thought != "x" {
		t.Errorf("thought = %q, want x", result.Thought)
	}
	call := toolCallOf(t, result)
	if call["name"] != "finish" {
		t.Errorf("tool name = %v, want finish", call["name"])
	}
	args, ok := call["args"].(map[string]any)
	if !ok || !reflect.DeepEqual(args, map[string]any{"answer": "42"}) {
		t.Errorf("args = %v, want {answer: 42}", call["args"])
	}
}

func TestInterpretSynthesizesThought(t *testing.T) {
	result := mustSuccess(t, `{"tool_call":{"name":"t","args":{}}}`)

	if result.Thought == "" {
		t.Fatal("expected non-empty synthesized thought")
	}
	if !strings.Contains(result.Thought, "t") {
		t.Errorf("synthesized thought should mention the tool name: %q", result.Thought)
	}
}

func TestInterpretMissingToolCall(t *testing.T) {
	_, parseErr := Interpret(`{"thought":"x"}`)
	if parseErr == nil {
		t.Fatal("expected failure for missing tool_call")
	}
	if parseErr.Reason != "missing tool_call" {
		t.Errorf("reason = %q", parseErr.Reason)
	}
	if !reflect.DeepEqual(parseErr.PresentKeys, []string{"thought"}) {
		t.Errorf("present keys = %v, want [thought]", parseErr.PresentKeys)
	}
}

func TestInterpretFencedEqualsUnwrapped(t *testing.T) {
	plain := mustSuccess(t, `{"thought":"x","tool_call":{"name":"t","args":{}}}`)
	fenced := mustSuccess(t, "```json\n{\"thought\":\"x\",\"tool_call\":{\"name\":\"t\",\"args\":{}}}\n```")

	if plain.Thought != fenced.Thought {
		t.Errorf("thought differs: %q vs %q", plain.Thought, fenced.Thought)
	}
	if !reflect.DeepEqual(toolCallOf(t, plain), toolCallOf(t, fenced)) {
		t.Error("tool_call differs between fenced and unwrapped input")
	}
}

func TestInterpretNonJSON(t *testing.T) {
	_, parseErr := Interpret("hello world")
	if parseErr == nil {
		t.Fatal("expected failure for non-JSON input")
	}
	if parseErr.Reason == "" {
		t.Error("expected a diagnostic reason")
	}
	if parseErr.Preview == "" {
		t.Error("expected a bounded preview")
	}
}

func TestInterpretTopLevelToolCall(t *testing.T) {
	result := mustSuccess(t, `{"name":"list_tables","args":{}}`)

	call := toolCallOf(t, result)
	if call["name"] != "list_tables" {
		t.Errorf("tool name = %v, want list_tables", call["name"])
	}
	if result.Thought == "" {
		t.Error("wrapping should still produce a non-empty thought")
	}
}

func TestInterpretSurroundingCommentary(t *testing.T) {
	result := mustSuccess(t,
		`Sure, here is my next step: {"thought":"probe","tool_call":{"name":"t","args":{"n":1}}} hope that helps`)

	if result.Thought != "probe" {
		t.Errorf("thought = %q, want probe", result.Thought)
	}
}

func TestInterpretThoughtToolCallLayout(t *testing.T) {
	result := mustSuccess(t, "Thought: I should look at the tables\nTool call: {\"name\":\"list_tables\",\"args\":{}}")

	if result.Thought != "I should look at the tables" {
		t.Errorf("thought = %q", result.Thought)
	}
	call := toolCallOf(t, result)
	if call["name"] != "list_tables" {
		t.Errorf("tool name = %v", call["name"])
	}
}

func TestJSONTypeName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`{}`, "object"},
		{`[]`, "array"},
		{`"x"`, "string"},
		{`true`, "boolean"},
		{`null`, "null"},
		{`42`, "number"},
	}
	for _, tc := range cases {
		if got := jsonTypeName(json.RawMessage(tc.raw)); got != tc.want {
			t.Errorf("jsonTypeName(%s) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
