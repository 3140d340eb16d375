package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
)

// cannedProvider replays a fixed completion and records the prompt it saw.
type cannedProvider struct {
	content string
	err     error
	prompt  string
}

func (p *cannedProvider) Name() string  { return "canned" }
func (p *cannedProvider) Model() string { return "canned-model" }

func (p *cannedProvider) Chat(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (llm.Response, error) {
	if len(messages) > 0 {
		p.prompt = messages[len(messages)-1].Content
	}
	if p.err != nil {
		return llm.Response{}, p.err
	}
	return llm.Response{Content: p.content}, nil
}

func newGeneratorTool(provider *cannedProvider, dialect string) *SQLGeneratorTool {
	client := llm.NewClient(provider).WithMaxAttempts(1)
	return NewSQLGeneratorTool(client, dialect)
}

func TestGenerateSQLReturnsQuery(t *testing.T) {
	provider := &cannedProvider{content: "SELECT count(*) FROM orders"}
	tool := newGeneratorTool(provider, "sqlite")

	obs, err := tool.Execute(context.Background(), map[string]any{
		"natural_language_query": "How many orders are there?",
		"schema_info":            "CREATE TABLE orders (id INTEGER);",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs != "Successfully generated SQL: SELECT count(*) FROM orders" {
		t.Errorf("observation = %q", obs)
	}
}

func TestGenerateSQLPromptContents(t *testing.T) {
	provider := &cannedProvider{content: "SELECT 1"}
	tool := newGeneratorTool(provider, "sqlite3")

	_, err := tool.Execute(context.Background(), map[string]any{
		"natural_language_query": "Count the users",
		"schema_info":            "CREATE TABLE users (id INTEGER);",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"SQLITE",
		"CREATE TABLE users",
		"Count the users",
		"ONLY generate SELECT statements",
	} {
		if !strings.Contains(provider.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, provider.prompt)
		}
	}
}

func TestGenerateSQLCorrectionContext(t *testing.T) {
	provider := &cannedProvider{content: "SELECT 1"}
	tool := newGeneratorTool(provider, "")

	_, err := tool.Execute(context.Background(), map[string]any{
		"natural_language_query": "Count the users",
		"schema_info":            "CREATE TABLE users (id INTEGER);",
		"correction_context":     "no such column: nam",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(provider.prompt, "no such column: nam") {
		t.Errorf("prompt missing correction context:\n%s", provider.prompt)
	}
}

func TestGenerateSQLStripsDecorations(t *testing.T) {
	cases := map[string]string{
		"```sql\nSELECT name FROM users;\n```": "SELECT name FROM users",
		"SQL query: SELECT 1;":                 "SELECT 1",
		"  SELECT 2  ":                         "SELECT 2",
	}
	for response, want := range cases {
		if got := extractSQL(response); got != want {
			t.Errorf("extractSQL(%q) = %q, want %q", response, got, want)
		}
	}
}

func TestGenerateSQLEmptyResponse(t *testing.T) {
	provider := &cannedProvider{content: "   "}
	tool := newGeneratorTool(provider, "sqlite")

	_, err := tool.Execute(context.Background(), map[string]any{
		"natural_language_query": "q",
		"schema_info":            "s",
	})
	if err == nil {
		t.Fatal("expected error for empty generation")
	}
}

func TestGenerateSQLProviderFailure(t *testing.T) {
	provider := &cannedProvider{err: errors.New("model offline")}
	tool := newGeneratorTool(provider, "sqlite")

	_, err := tool.Execute(context.Background(), map[string]any{
		"natural_language_query": "q",
		"schema_info":            "s",
	})
	if err == nil || !strings.Contains(err.Error(), "SQL generation failed") {
		t.Errorf("err = %v", err)
	}
}
