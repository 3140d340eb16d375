package agent

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFailureMessage(t *testing.T) {
	msg := ParseFailureMessage("no JSON object found", "hello world")

	if !strings.Contains(msg, "no JSON object found") {
		t.Errorf("message missing reason: %q", msg)
	}
	if !strings.Contains(msg, "hello world") {
		t.Errorf("message missing preview: %q", msg)
	}
	if !strings.Contains(msg, `"tool_call"`) {
		t.Errorf("message should restate the response format: %q", msg)
	}
}

func TestMissingToolCallMessage(t *testing.T) {
	msg := MissingToolCallMessage([]string{"thought", "reasoning"})

	if !strings.Contains(msg, "tool_call") {
		t.Errorf("message missing field name: %q", msg)
	}
	if !strings.Contains(msg, "thought, reasoning") {
		t.Errorf("message should list present keys: %q", msg)
	}
}

func TestMissingToolCallMessageNoKeys(t *testing.T) {
	msg := MissingToolCallMessage(nil)
	if !strings.Contains(msg, "none") {
		t.Errorf("message should say no keys were found: %q", msg)
	}
}

func TestWrongToolCallTypeMessage(t *testing.T) {
	msg := WrongToolCallTypeMessage("string")

	if !strings.Contains(msg, "must be a JSON object") {
		t.Errorf("message missing expected type: %q", msg)
	}
	if !strings.Contains(msg, "string") {
		t.Errorf("message missing actual type: %q", msg)
	}
}

func TestMissingToolNameMessage(t *testing.T) {
	msg := MissingToolNameMessage()
	if !strings.Contains(msg, "'name'") {
		t.Errorf("message should flag the name field: %q", msg)
	}
}

func TestMessagesAreDeterministic(t *testing.T) {
	a := ParseFailureMessage("r", "p")
	b := ParseFailureMessage("r", "p")
	if a != b {
		t.Error("same inputs must produce the same message")
	}
}

func TestInfrastructureFailureMessage(t *testing.T) {
	msg := InfrastructureFailureMessage(errors.New("provider unreachable"))
	if !strings.Contains(msg, "provider unreachable") {
		t.Errorf("message missing cause: %q", msg)
	}
	if !strings.Contains(msg, "try again") {
		t.Errorf("message should prompt a retry: %q", msg)
	}
}
