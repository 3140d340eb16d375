// SQL validation tool.
//
// Validation is lexical: the query is tokenized just enough to find the
// statement kind and referenced table names. That is sufficient to enforce
// read-only access against an allow-list; it does not attempt full SQL
// parsing.

package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// piiColumnPatterns flag selected columns that commonly hold PII.
var piiColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ssn`),
	regexp.MustCompile(`(?i)social_security`),
	regexp.MustCompile(`(?i)credit_card`),
	regexp.MustCompile(`(?i)cc_num`),
	regexp.MustCompile(`(?i)phone`),
	regexp.MustCompile(`(?i)email`),
	regexp.MustCompile(`(?i)address`),
	regexp.MustCompile(`(?i)dob`),
	regexp.MustCompile(`(?i)date_of_birth`),
}

var (
	tableRefRe  = regexp.MustCompile(`(?i)\b(?:from|join)\s+([A-Za-z_][A-Za-z0-9_.]*)`)
	firstWordRe = regexp.MustCompile(`(?i)^\s*([a-z]+)`)
	columnRe    = regexp.MustCompile(`(?is)^\s*select\s+(.*?)\s+from\b`)
)

// SQLValidatorTool checks queries against an allow-list before execution.
type SQLValidatorTool struct {
	allowedTables map[string]bool
}

// NewSQLValidatorTool creates the validate_sql tool.
func NewSQLValidatorTool(allowedTables []string) *SQLValidatorTool {
	allowed := make(map[string]bool, len(allowedTables))
	for _, t := range allowedTables {
		allowed[strings.ToLower(t)] = true
	}
	return &SQLValidatorTool{allowedTables: allowed}
}

func (t *SQLValidatorTool) Name() string {
	return "validate_sql"
}

func (t *SQLValidatorTool) Description() string {
	return "Validate a SQL query for security and correctness before executing it"
}

func (t *SQLValidatorTool) ParameterSchema() map[string]ParamSpec {
	return map[string]ParamSpec{
		"sql_query": {
			Type:        "string",
			Required:    true,
			Description: "SQL query to validate",
		},
	}
}

func (t *SQLValidatorTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["sql_query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return "", Validationf("Parameter 'sql_query' must not be empty.")
	}

	if kind := statementKind(query); kind != "select" && kind != "with" {
		return fmt.Sprintf("Validation failed: only SELECT queries are allowed, got %s statement.",
			strings.ToUpper(kind)), nil
	}

	var violations []string
	for _, table := range referencedTables(query) {
		if len(t.allowedTables) > 0 && !t.allowedTables[table] {
			violations = append(violations, fmt.Sprintf("table '%s' is not in the allowed list", table))
		}
	}
	if len(violations) > 0 {
		return fmt.Sprintf("Validation failed: %s. Allowed tables: %s",
			strings.Join(violations, "; "), strings.Join(t.allowedNames(), ", ")), nil
	}

	if flagged := flaggedPIIColumns(query); len(flagged) > 0 {
		return fmt.Sprintf("Query is valid, but selects potentially sensitive columns: %s. Results will be masked.",
			strings.Join(flagged, ", ")), nil
	}

	return "Query is valid.", nil
}

func (t *SQLValidatorTool) allowedNames() []string {
	names := make([]string, 0, len(t.allowedTables))
	for name := range t.allowedTables {
		names = append(names, name)
	}
	return names
}

// statementKind returns the lowercase first keyword of the statement.
func statementKind(query string) string {
	m := firstWordRe.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// referencedTables extracts lowercase table names following FROM/JOIN.
func referencedTables(query string) []string {
	seen := make(map[string]bool)
	var tables []string
	for _, m := range tableRefRe.FindAllStringSubmatch(query, -1) {
		name := strings.ToLower(m[1])
		// Strip a schema qualifier; the allow-list holds bare names.
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		if !seen[name] {
			seen[name] = true
			tables = append(tables, name)
		}
	}
	return tables
}

// flaggedPIIColumns reports selected column expressions matching PII patterns.
func flaggedPIIColumns(query string) []string {
	m := columnRe.FindStringSubmatch(query)
	if m == nil {
		return nil
	}

	var flagged []string
	for _, col := range strings.Split(m[1], ",") {
		col = strings.TrimSpace(col)
		for _, pattern := range piiColumnPatterns {
			if pattern.MatchString(col) {
				flagged = append(flagged, col)
				break
			}
		}
	}
	return flagged
}

// Verify SQLValidatorTool implements Tool
var _ Tool = (*SQLValidatorTool)(nil)
