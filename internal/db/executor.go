package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// PostgresExecutor runs built queries against Postgres. The @name
// placeholders in the query text are bound through pgx's named-argument
// rewriter, so filter values never enter the SQL string.
type PostgresExecutor struct {
	pool Pool
}

// NewPostgresExecutor creates a PostgresExecutor on an existing pool.
func NewPostgresExecutor(pool Pool) *PostgresExecutor {
	return &PostgresExecutor{pool: pool}
}

// Execute runs the query with params bound as named arguments and decodes
// every row into a column-name → value map.
func (e *PostgresExecutor) Execute(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error) {
	var args []any
	if len(params) > 0 {
		args = append(args, pgx.NamedArgs(params))
	}

	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "db: query")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "db: read row")
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "db: rows")
	}

	return out, nil
}
