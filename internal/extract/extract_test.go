package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/schema"
)

func covidSchema() *schema.Schema {
	return schema.CovidOpenData()
}

func TestExtract_BareJSON(t *testing.T) {
	t.Parallel()

	rec, err := Extract(`{"country_name": "Japan", "date": "2024-01-01"}`, covidSchema())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"country_name": "Japan", "date": "2024-01-01"}, rec)
}

func TestExtract_SurroundingWhitespace(t *testing.T) {
	t.Parallel()

	rec, err := Extract("\n\n  {\"country_name\": \"Japan\"}  \n", covidSchema())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"country_name": "Japan"}, rec)
}

func TestExtract_FencedBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"json tag", "Sure! ```json\n{\"country_name\":\"Japan\"}\n```"},
		{"no tag", "```\n{\"country_name\":\"Japan\"}\n```"},
		{"prose before and after", "Here you go:\n```json\n{\"country_name\":\"Japan\"}\n```\nLet me know if that helps."},
		{"crlf after fence", "```json\r\n{\"country_name\":\"Japan\"}\r\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := Extract(tt.text, covidSchema())
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"country_name": "Japan"}, rec)
		})
	}
}

func TestExtract_FirstFencedBlockWins(t *testing.T) {
	t.Parallel()

	text := "```json\n{\"country_name\":\"Japan\"}\n```\nor maybe:\n```json\n{\"country_name\":\"France\"}\n```"
	rec, err := Extract(text, covidSchema())
	require.NoError(t, err)
	assert.Equal(t, "Japan", rec["country_name"])
}

func TestExtract_UnknownFieldsDropped(t *testing.T) {
	t.Parallel()

	rec, err := Extract(`{"country_name": "Japan", "confidence": 0.9}`, covidSchema())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"country_name": "Japan"}, rec)
}

func TestExtract_NullFieldKept(t *testing.T) {
	t.Parallel()

	rec, err := Extract(`{"country_name": "Japan", "date": null}`, covidSchema())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"country_name": "Japan", "date": nil}, rec)
}

func TestExtract_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"no json at all", "I could not find anything useful."},
		{"empty text", ""},
		{"json array", `[1, 2, 3]`},
		{"bare null", `null`},
		{"invalid date fails whole object", `{"country_name": "Japan", "date": "2024/01/01"}`},
		{"numeric string latitude", `{"latitude": "12.3"}`},
		{"invalid field inside fence", "```json\n{\"date\": \"01-01-2024\"}\n```"},
		{"unterminated fence", "```json\n{\"country_name\":\"Japan\"}"},
		{"truncated json", `{"country_name": "Jap`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Extract(tt.text, covidSchema())
			require.Error(t, err)

			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			// The raw text comes back verbatim for diagnostics.
			assert.Equal(t, tt.text, malformed.Raw)
		})
	}
}

func TestExtract_DirectParseWinsOverFence(t *testing.T) {
	t.Parallel()

	// The whole text is valid JSON, so the fenced content inside a string
	// value is never considered.
	text := `{"country_name": "Japan"}`
	rec, err := Extract(text, covidSchema())
	require.NoError(t, err)
	assert.Equal(t, "Japan", rec["country_name"])
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	text := "```json\n{\"country_name\":\"Japan\",\"latitude\":35.6895}\n```"
	first, err := Extract(text, covidSchema())
	require.NoError(t, err)
	second, err := Extract(text, covidSchema())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
