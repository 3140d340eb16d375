// SQL generation: translating natural-language questions into SQL with a
// dedicated model call. The generated query is meant to be validated with
// validate_sql and run with execute_sql afterwards.

package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
)

var sqlFenceRe = regexp.MustCompile("(?is)```sql\\s*(.*?)\\s*```")

// dialectGuidelines coaches the model toward one SQL flavour. Unknown
// dialects get no extra guidance.
var dialectGuidelines = map[string]string{
	"sqlite": `- Use SQLite functions and syntax: date(), strftime(), julianday().
- Do not use syntax from other dialects (e.g. GETDATE(), ::date, DATE_TRUNC()).`,
	"postgresql": `- Use PostgreSQL functions and syntax: NOW(), DATE_TRUNC(), EXTRACT(), ::text casting.`,
	"mysql": `- Use MySQL functions and syntax: NOW(), DATE_FORMAT(), CURDATE(), STR_TO_DATE().`,
}

// SQLGeneratorTool generates SQL queries from natural language.
type SQLGeneratorTool struct {
	client  *llm.Client
	dialect string
}

// NewSQLGeneratorTool creates the generate_sql tool. The dialect names the
// SQL flavour the prompt targets; empty and "sqlite3" both mean sqlite.
func NewSQLGeneratorTool(client *llm.Client, dialect string) *SQLGeneratorTool {
	switch dialect {
	case "", "sqlite3":
		dialect = "sqlite"
	}
	return &SQLGeneratorTool{client: client, dialect: strings.ToLower(dialect)}
}

func (t *SQLGeneratorTool) Name() string {
	return "generate_sql"
}

func (t *SQLGeneratorTool) Description() string {
	return "Generate a SQL query from a natural language question"
}

func (t *SQLGeneratorTool) ParameterSchema() map[string]ParamSpec {
	return map[string]ParamSpec{
		"natural_language_query": {
			Type:        "string",
			Required:    true,
			Description: "Natural language description of the query",
		},
		"schema_info": {
			Type:        "string",
			Required:    true,
			Description: "Database schema information",
		},
		"correction_context": {
			Type:        "string",
			Required:    false,
			Description: "Context from previous failed query attempts",
		},
	}
}

func (t *SQLGeneratorTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	nlQuery, _ := args["natural_language_query"].(string)
	schemaInfo, _ := args["schema_info"].(string)
	correction, _ := args["correction_context"].(string)

	prompt := t.buildPrompt(nlQuery, schemaInfo, correction)

	resp, err := t.client.Chat(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, llm.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("SQL generation failed: %w", err)
	}

	query := extractSQL(resp.Content)
	if query == "" {
		return "", fmt.Errorf("SQL generation produced an empty query")
	}
	return fmt.Sprintf("Successfully generated SQL: %s", query), nil
}

func (t *SQLGeneratorTool) buildPrompt(nlQuery, schemaInfo, correction string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a %s SQL expert. Translate the user's question into a single, syntactically correct %s SELECT query.\n\n",
		strings.ToUpper(t.dialect), strings.ToUpper(t.dialect))

	b.WriteString("Database schema:\n")
	b.WriteString(schemaInfo)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- ONLY generate SELECT statements. Never INSERT, UPDATE, DELETE or any DDL.\n")
	if guidelines, ok := dialectGuidelines[t.dialect]; ok {
		b.WriteString(guidelines)
		b.WriteString("\n")
	}
	b.WriteString("- Return ONLY the SQL query: no markdown fences, no explanations, no trailing semicolon.\n")

	if correction != "" {
		b.WriteString("\nA previous attempt failed:\n")
		b.WriteString(correction)
		b.WriteString("\nAnalyze the error and generate a corrected query.\n")
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n\nSQL query:", nlQuery)
	return b.String()
}

// extractSQL pulls the query out of a model response that may still carry
// markdown fences or a leading label despite the prompt's instructions.
func extractSQL(response string) string {
	query := response
	if m := sqlFenceRe.FindStringSubmatch(response); m != nil {
		query = m[1]
	}
	query = strings.TrimSpace(query)
	query = strings.TrimSuffix(query, ";")

	if len(query) >= 10 && strings.EqualFold(query[:10], "sql query:") {
		query = strings.TrimSpace(query[10:])
	}
	return query
}

var _ Tool = (*SQLGeneratorTool)(nil)
