package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// DatasetColumns are the columns of the bundled COVID-19 open-data table, in
// load order.
var DatasetColumns = []string{"country_name", "latitude", "longitude", "date"}

// EnsureTable creates the dataset table if it does not exist.
func EnsureTable(ctx context.Context, pool Pool, table string) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	country_name TEXT,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	date DATE
)`, sanitizeTable(table))

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return eris.Wrapf(err, "db: create table %s", table)
	}
	return nil
}

// CopyRows bulk-inserts rows into a table using the PostgreSQL COPY protocol.
// Handles schema-qualified table names like "samples.covid19_open_data".
func CopyRows(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ident := tableIdentifier(table)
	n, err := pool.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}

	return n, nil
}

// tableIdentifier splits a possibly schema-qualified table name into a pgx
// identifier.
func tableIdentifier(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}
	}
	return pgx.Identifier{table}
}

// sanitizeTable handles schema-qualified table names like "samples.covid19_open_data".
func sanitizeTable(table string) string {
	return tableIdentifier(table).Sanitize()
}
