// Package jsonextract recovers JSON objects from unreliable LLM output.
//
// Models asked for pure JSON still produce markdown fences, role labels like
// "Thought:", commentary around the object, or a split "Thought: ... Tool
// call: {...}" layout. Extraction tries a sequence of increasingly forgiving
// strategies; the first one that yields a parseable JSON object wins.
package jsonextract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PreviewLimit bounds the length of raw-text previews embedded in errors.
const PreviewLimit = 200

var (
	roleLabelRe      = regexp.MustCompile(`(?im)^(?:Thought|Tool call|Response):\s*`)
	fenceRe          = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	thoughtToolRe    = regexp.MustCompile(`(?is)Thought:\s*(.*?)\s*Tool\s+call:\s*(\{.*\})`)
	objectCandidates = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// Extract returns the JSON object text recovered from response, or an error
// whose message includes a bounded preview of the input.
//
// Strategies, in order:
//  1. unwrap a markdown code fence, strip leading role labels
//  2. parse the whole cleaned text directly
//  3. reconstruct from a "Thought: <text> Tool call: <json>" layout
//  4. scan for the first balanced top-level {...} span by brace depth
//  5. bounded regex search for any object-shaped substring
func Extract(response string) (string, error) {
	unfenced := unwrapFence(response)
	cleaned := stripRoleLabels(unfenced)

	if obj, ok := tryParseObject(cleaned); ok {
		return obj, nil
	}
	// Reconstruction reads the labels themselves, so it runs against the
	// text before label stripping.
	if obj, ok := reconstructThoughtToolCall(unfenced); ok {
		return obj, nil
	}
	if obj, ok := firstBalancedObject(cleaned); ok {
		return obj, nil
	}
	if obj, ok := regexFallback(cleaned); ok {
		return obj, nil
	}

	return "", fmt.Errorf("failed to extract valid JSON from response: %q", Preview(response))
}

// Preview truncates s to at most PreviewLimit bytes for diagnostics,
// cutting on a rune boundary so the result stays valid UTF-8.
func Preview(s string) string {
	if len(s) <= PreviewLimit {
		return s
	}
	cut := PreviewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// unwrapFence extracts the contents of a fenced code block if the text
// starts with one.
func unwrapFence(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```") {
		if m := fenceRe.FindStringSubmatch(cleaned); m != nil {
			cleaned = strings.TrimSpace(m[1])
		}
	}
	return cleaned
}

// stripRoleLabels removes line-leading role labels like "Thought:".
func stripRoleLabels(text string) string {
	return strings.TrimSpace(roleLabelRe.ReplaceAllString(text, ""))
}

// tryParseObject reports whether text parses as a JSON object.
func tryParseObject(text string) (string, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil || probe == nil {
		return "", false
	}
	return text, true
}

// reconstructThoughtToolCall detects the "Thought: ... Tool call: {...}"
// layout and synthesizes the expected wrapper object from the two pieces.
func reconstructThoughtToolCall(text string) (string, bool) {
	m := thoughtToolRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	var call json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[2])), &call); err != nil {
		return "", false
	}

	constructed, err := json.Marshal(map[string]json.RawMessage{
		"thought":   mustMarshalString(strings.TrimSpace(m[1])),
		"tool_call": call,
	})
	if err != nil {
		return "", false
	}
	return string(constructed), true
}

// firstBalancedObject tracks brace depth character by character and extracts
// the first balanced top-level {...} span that parses as an object. Explicit
// scanning keeps the guarantee independent of regex backtracking behavior.
func firstBalancedObject(text string) (string, bool) {
	depth := 0
	start := -1
	for i, ch := range text {
		switch ch {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				if obj, ok := tryParseObject(text[start : i+1]); ok {
					return obj, true
				}
				start = -1
			}
		}
	}
	return "", false
}

// regexFallback finds any object-shaped substring with one nesting level.
func regexFallback(text string) (string, bool) {
	candidate := objectCandidates.FindString(text)
	if candidate == "" {
		return "", false
	}
	return tryParseObject(candidate)
}

func mustMarshalString(s string) json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return data
}
