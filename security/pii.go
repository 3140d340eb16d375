// Package security provides PII masking for tool output.
//
// Detection is regex-based and intentionally conservative: the detectors
// target well-structured identifiers (emails, phone numbers, SSNs, card
// numbers) rather than attempting free-text entity recognition.
package security

import (
	"log/slog"
	"regexp"
)

// Redacted replaces every detected PII span.
const Redacted = "<REDACTED>"

type detector struct {
	entity  string
	pattern *regexp.Regexp
}

var defaultDetectors = []detector{
	{"EMAIL", regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
	{"SSN", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"CREDIT_CARD", regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)},
	{"PHONE", regexp.MustCompile(`\b(?:\+?1[ .\-]?)?\(?\d{3}\)?[ .\-]\d{3}[ .\-]\d{4}\b`)},
}

// Masker replaces PII spans in text with a redaction marker.
// Safe for concurrent use; detectors are immutable after construction.
type Masker struct {
	detectors []detector
}

// NewMasker creates a masker with the default detector set.
func NewMasker() *Masker {
	return &Masker{detectors: defaultDetectors}
}

// Mask returns text with all detected PII spans replaced.
func (m *Masker) Mask(text string, traceID string) string {
	if text == "" {
		return ""
	}

	var found []string
	masked := text
	for _, d := range m.detectors {
		if d.pattern.MatchString(masked) {
			found = append(found, d.entity)
			masked = d.pattern.ReplaceAllString(masked, Redacted)
		}
	}

	if len(found) > 0 {
		slog.Info("pii_scan_result", "trace_id", traceID, "entities_found", found)
	}
	return masked
}
