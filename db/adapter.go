// Package db provides database adapters behind a narrow query interface.
//
// Adapters expose read access scoped to an allow-list of tables; tools built
// on top never see a raw *sql.DB.
package db

import (
	"context"
	"fmt"
	"strings"
)

// Result holds the rows returned by a query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the result has no rows.
func (r *Result) Empty() bool {
	return len(r.Rows) == 0
}

// Markdown renders the result as a markdown table for model consumption.
func (r *Result) Markdown() string {
	if r.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(r.Columns, " | ") + " |\n")

	sep := make([]string, len(r.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	for _, row := range r.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Adapter is the interface all database adapters implement.
type Adapter interface {
	// Query executes a read query and returns the result set.
	Query(ctx context.Context, query string) (*Result, error)

	// Schema returns DDL-style schema text for the named tables.
	Schema(ctx context.Context, tables []string) (string, error)

	// AllowedTables returns the tables this adapter is scoped to.
	// An empty list means no scoping was configured.
	AllowedTables() []string

	// Ping verifies the connection.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// Config describes an adapter to construct.
type Config struct {
	Driver        string   `yaml:"driver"`
	DSN           string   `yaml:"dsn"`
	AllowedTables []string `yaml:"allowed_tables"`
}

// Open constructs an adapter from configuration.
// Only the sqlite3 driver is supported; the Adapter seam is where other
// database/sql drivers would plug in.
func Open(cfg Config) (Adapter, error) {
	switch cfg.Driver {
	case "", "sqlite", "sqlite3":
		return OpenSqlite(cfg.DSN, cfg.AllowedTables)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}
