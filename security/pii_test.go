package security

import (
	"strings"
	"testing"
)

func TestMaskEmail(t *testing.T) {
	masker := NewMasker()
	got := masker.Mask("contact alice@example.com for details", "t1")
	if strings.Contains(got, "alice@example.com") {
		t.Errorf("email not masked: %s", got)
	}
	if !strings.Contains(got, Redacted) {
		t.Errorf("expected redaction marker: %s", got)
	}
}

func TestMaskSSN(t *testing.T) {
	masker := NewMasker()
	got := masker.Mask("ssn: 123-45-6789", "t1")
	if strings.Contains(got, "123-45-6789") {
		t.Errorf("SSN not masked: %s", got)
	}
}

func TestMaskPhone(t *testing.T) {
	masker := NewMasker()
	got := masker.Mask("call 555-867-5309 today", "t1")
	if strings.Contains(got, "555-867-5309") {
		t.Errorf("phone not masked: %s", got)
	}
}

func TestMaskCreditCard(t *testing.T) {
	masker := NewMasker()
	got := masker.Mask("card 4111 1111 1111 1111 on file", "t1")
	if strings.Contains(got, "4111 1111 1111 1111") {
		t.Errorf("card number not masked: %s", got)
	}
}

func TestMaskLeavesCleanTextAlone(t *testing.T) {
	masker := NewMasker()
	input := "there are 42 users in the table"
	if got := masker.Mask(input, "t1"); got != input {
		t.Errorf("clean text modified: %s", got)
	}
}

func TestMaskEmptyInput(t *testing.T) {
	masker := NewMasker()
	if got := masker.Mask("", "t1"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
