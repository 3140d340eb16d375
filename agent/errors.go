// Corrective feedback messages for failed cycles.
//
// Each builder maps one failure category to an observation the model reads
// on the next cycle. The messages coach the model toward the correct
// response shape rather than just reporting the fault. All builders are
// deterministic and side-effect free.

package agent

import (
	"fmt"
	"strings"
)

// responseFormatHint restates the mandatory response contract. Appended to
// every corrective message so the model never has to remember it.
const responseFormatHint = `Respond with a single JSON object in exactly this format:
{"thought": "<your reasoning>", "tool_call": {"name": "<tool name>", "args": {<arguments>}}}`

// ParseFailureMessage describes a response that could not be parsed at all.
func ParseFailureMessage(reason, preview string) string {
	return fmt.Sprintf(
		"Error: Your response could not be parsed. %s\nYour response was: %s\n\n%s",
		reason, preview, responseFormatHint)
}

// MissingToolCallMessage describes a parsed object with no tool_call field.
func MissingToolCallMessage(presentKeys []string) string {
	found := "none"
	if len(presentKeys) > 0 {
		found = strings.Join(presentKeys, ", ")
	}
	return fmt.Sprintf(
		"Error: Your response is missing the required 'tool_call' field. Top-level keys found: %s.\n\n%s",
		found, responseFormatHint)
}

// WrongToolCallTypeMessage describes a tool_call that is not a JSON object.
func WrongToolCallTypeMessage(actualType string) string {
	return fmt.Sprintf(
		"Error: The 'tool_call' field must be a JSON object, but was %s.\n\n%s",
		actualType, responseFormatHint)
}

// MissingToolNameMessage describes a tool_call object with no name.
func MissingToolNameMessage() string {
	return fmt.Sprintf(
		"Error: The 'tool_call' object must include a non-empty 'name' field.\n\n%s",
		responseFormatHint)
}

// InfrastructureFailureMessage describes an unexpected failure inside one
// cycle. The model is asked to retry; the budget absorbs repeated failures.
func InfrastructureFailureMessage(err error) string {
	return fmt.Sprintf("An unexpected error occurred: %v. Please try again.", err)
}
