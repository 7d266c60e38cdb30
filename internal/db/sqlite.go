package db

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteExecutor runs built queries against an embedded SQLite database.
// SQLite accepts @name parameters natively, so the same query templates work
// on both backends.
type SQLiteExecutor struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteExecutor, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "db: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "db: sqlite exec %s", pragma)
		}
	}
	return &SQLiteExecutor{db: db}, nil
}

// Execute runs the query with params bound via sql.Named and decodes every
// row into a column-name → value map.
func (e *SQLiteExecutor) Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	args := make([]any, 0, len(params))
	for name, v := range params {
		args = append(args, sql.Named(name, v))
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "db: sqlite query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "db: sqlite columns")
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "db: sqlite scan")
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "db: sqlite rows")
	}

	return out, nil
}

// Migrate creates the dataset table if it does not exist.
func (e *SQLiteExecutor) Migrate(ctx context.Context, table string) error {
	stmt := `CREATE TABLE IF NOT EXISTS ` + table + ` (
	country_name TEXT,
	latitude REAL,
	longitude REAL,
	date TEXT
)`
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return eris.Wrapf(err, "db: sqlite migrate %s", table)
	}
	return nil
}

// Close releases the underlying database handle.
func (e *SQLiteExecutor) Close() error {
	return e.db.Close()
}
