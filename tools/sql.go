// Database tools: query execution and schema discovery.
//
// All three tools share a db.Adapter scoped to an allow-list of tables.
// Output is rendered as markdown tables so the model can read it directly.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/db"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/security"
)

// SQLExecutorTool executes SQL queries against a database adapter.
type SQLExecutorTool struct {
	adapter db.Adapter
	masker  *security.Masker
}

// NewSQLExecutorTool creates the execute_sql tool.
// A nil masker disables PII masking of results.
func NewSQLExecutorTool(adapter db.Adapter, masker *security.Masker) *SQLExecutorTool {
	return &SQLExecutorTool{adapter: adapter, masker: masker}
}

func (t *SQLExecutorTool) Name() string {
	return "execute_sql"
}

func (t *SQLExecutorTool) Description() string {
	return "Execute a validated SQL query and return results"
}

func (t *SQLExecutorTool) ParameterSchema() map[string]ParamSpec {
	return map[string]ParamSpec{
		"sql_query": {
			Type:        "string",
			Required:    true,
			Description: "Valid SQL query to execute",
		},
	}
}

func (t *SQLExecutorTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["sql_query"].(string)

	result, err := t.adapter.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("SQL execution failed: %w", err)
	}

	if result.Empty() {
		return "Query executed successfully, but returned no results.", nil
	}

	rendered := result.Markdown()
	if t.masker != nil {
		rendered = t.masker.Mask(rendered, TraceFromContext(ctx))
	}
	return fmt.Sprintf("Query executed successfully. Data:\n%s", rendered), nil
}

// ListTablesTool lists the tables an agent is allowed to query.
type ListTablesTool struct {
	adapter db.Adapter
}

// NewListTablesTool creates the list_tables tool.
func NewListTablesTool(adapter db.Adapter) *ListTablesTool {
	return &ListTablesTool{adapter: adapter}
}

func (t *ListTablesTool) Name() string {
	return "list_tables"
}

func (t *ListTablesTool) Description() string {
	return "List all available tables that can be queried. Use this to discover what tables exist before writing queries."
}

func (t *ListTablesTool) ParameterSchema() map[string]ParamSpec {
	return map[string]ParamSpec{}
}

func (t *ListTablesTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	tables := t.adapter.AllowedTables()
	if len(tables) == 0 {
		return "No tables are configured for this agent. Please check the agent configuration.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available tables (%d):\n", len(tables))
	for i, table := range tables {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, table)
	}
	b.WriteString("\nUse the 'get_schema' tool to get detailed schema information for any table.")
	return b.String(), nil
}

// SchemaIntrospectorTool returns schema information for tables.
type SchemaIntrospectorTool struct {
	adapter db.Adapter
}

// NewSchemaIntrospectorTool creates the get_schema tool.
func NewSchemaIntrospectorTool(adapter db.Adapter) *SchemaIntrospectorTool {
	return &SchemaIntrospectorTool{adapter: adapter}
}

func (t *SchemaIntrospectorTool) Name() string {
	return "get_schema"
}

func (t *SchemaIntrospectorTool) Description() string {
	return "Get schema information for tables. Use this to discover what tables exist and their structure before writing queries."
}

func (t *SchemaIntrospectorTool) ParameterSchema() map[string]ParamSpec {
	return map[string]ParamSpec{
		"tables": {
			Type:        "list",
			Required:    false,
			Description: "List of table names to get schema for. If not provided, returns schema for all allowed tables.",
		},
	}
}

func (t *SchemaIntrospectorTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	tables := stringList(args["tables"])
	if len(tables) == 0 {
		tables = t.adapter.AllowedTables()
		if len(tables) == 0 {
			return "No tables are configured for this agent. Please check the agent configuration.", nil
		}
	}

	schema, err := t.adapter.Schema(ctx, tables)
	if err != nil {
		allowed := t.adapter.AllowedTables()
		if len(allowed) > 0 {
			return "", fmt.Errorf("failed to get schema: %w. Available tables: %s",
				err, strings.Join(allowed, ", "))
		}
		return "", fmt.Errorf("failed to get schema: %w", err)
	}

	return fmt.Sprintf("Available tables: %s\n\nSchema information:\n%s",
		strings.Join(tables, ", "), schema), nil
}

// stringList coerces a JSON-decoded value into a string slice.
// Accepts a single string as a one-element list.
func stringList(v any) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		return []string{value}
	case []any:
		var out []string
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return value
	default:
		return nil
	}
}

// Verify interface compliance
var (
	_ Tool = (*SQLExecutorTool)(nil)
	_ Tool = (*ListTablesTool)(nil)
	_ Tool = (*SchemaIntrospectorTool)(nil)
)
