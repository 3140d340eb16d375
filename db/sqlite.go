// SQLite adapter.
//
// Information Hiding:
// - SQLite connection management hidden behind the Adapter interface
// - Row scanning into dynamic columns encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteAdapter implements Adapter over a SQLite database file.
type SqliteAdapter struct {
	db            *sql.DB
	allowedTables []string
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string, allowedTables []string) (*SqliteAdapter, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	return &SqliteAdapter{db: conn, allowedTables: allowedTables}, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory(allowedTables []string) (*SqliteAdapter, error) {
	return OpenSqlite(":memory:", allowedTables)
}

// Close closes the database connection.
func (s *SqliteAdapter) Close() error {
	return s.db.Close()
}

// Ping verifies the connection.
func (s *SqliteAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AllowedTables returns the configured table allow-list.
func (s *SqliteAdapter) AllowedTables() []string {
	return s.allowedTables
}

// DB exposes the underlying handle for seeding test fixtures.
func (s *SqliteAdapter) DB() *sql.DB {
	return s.db
}

// Query executes a query and scans all rows into a Result.
func (s *SqliteAdapter) Query(ctx context.Context, query string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return result, nil
}

// Schema returns the CREATE TABLE statements for the named tables.
// Unknown tables are reported inline rather than failing the whole call.
func (s *SqliteAdapter) Schema(ctx context.Context, tables []string) (string, error) {
	var parts []string
	for _, table := range tables {
		var ddl sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&ddl)
		switch {
		case err == sql.ErrNoRows:
			parts = append(parts, fmt.Sprintf("-- table %q not found", table))
		case err != nil:
			return "", fmt.Errorf("schema lookup for %q failed: %w", table, err)
		case ddl.Valid:
			parts = append(parts, ddl.String+";")
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no schema found for tables: %s", strings.Join(tables, ", "))
	}
	return strings.Join(parts, "\n\n"), nil
}

// Verify SqliteAdapter implements Adapter
var _ Adapter = (*SqliteAdapter)(nil)
