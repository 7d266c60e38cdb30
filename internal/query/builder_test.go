package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_EmptyFilter(t *testing.T) {
	t.Parallel()

	q := Build("t.table", map[string]any{}, 0)
	assert.Equal(t, "SELECT * FROM t.table LIMIT 5", q.SQL)
	assert.Empty(t, q.Params)
}

func TestBuild_NilFilter(t *testing.T) {
	t.Parallel()

	q := Build("t.table", nil, 0)
	assert.Equal(t, "SELECT * FROM t.table LIMIT 5", q.SQL)
	assert.Empty(t, q.Params)
}

func TestBuild_SingleFilterWithNullDropped(t *testing.T) {
	t.Parallel()

	q := Build("t.table", map[string]any{"country_name": "Japan", "date": nil}, 10)
	assert.Equal(t, "SELECT * FROM t.table WHERE country_name = @country_name LIMIT 10", q.SQL)
	assert.Equal(t, map[string]any{"country_name": "Japan"}, q.Params)
}

func TestBuild_EmptyStringDropped(t *testing.T) {
	t.Parallel()

	q := Build("t.table", map[string]any{"country_name": "", "date": "2024-01-01"}, 0)
	assert.Equal(t, "SELECT * FROM t.table WHERE date = @date LIMIT 5", q.SQL)
	assert.Equal(t, map[string]any{"date": "2024-01-01"}, q.Params)
}

func TestBuild_SortedPredicateOrder(t *testing.T) {
	t.Parallel()

	q := Build("t", map[string]any{"b": 1.0, "a": 2.0}, 5)
	assert.Equal(t, "SELECT * FROM t WHERE a = @a AND b = @b LIMIT 5", q.SQL)
	assert.Equal(t, map[string]any{"a": 2.0, "b": 1.0}, q.Params)
}

func TestBuild_ValuesNeverInSQL(t *testing.T) {
	t.Parallel()

	q := Build("t", map[string]any{"country_name": "'; DROP TABLE t; --"}, 5)
	assert.Equal(t, "SELECT * FROM t WHERE country_name = @country_name LIMIT 5", q.SQL)
	assert.Equal(t, "'; DROP TABLE t; --", q.Params["country_name"])
	assert.NotContains(t, q.SQL, "DROP")
}

func TestBuild_NonStringScalars(t *testing.T) {
	t.Parallel()

	q := Build("t", map[string]any{"latitude": 35.6895, "flagged": false}, 5)
	assert.Equal(t, "SELECT * FROM t WHERE flagged = @flagged AND latitude = @latitude LIMIT 5", q.SQL)
	assert.Equal(t, map[string]any{"latitude": 35.6895, "flagged": false}, q.Params)
}

func TestBuild_NegativeLimitUsesDefault(t *testing.T) {
	t.Parallel()

	q := Build("t", nil, -3)
	assert.Equal(t, "SELECT * FROM t LIMIT 5", q.SQL)
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	filters := map[string]any{"country_name": "Japan", "date": "2024-01-01", "latitude": 35.6895}
	first := Build("t.table", filters, 7)
	for range 10 {
		assert.Equal(t, first, Build("t.table", filters, 7))
	}
}
