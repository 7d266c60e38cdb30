package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/ask"
	"github.com/azoom-yongrok-choi/dummyMCP/internal/schema"
)

type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return g.response, g.err
}

type stubExecutor struct {
	rows []map[string]any
	err  error
}

func (e *stubExecutor) Execute(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error) {
	return e.rows, e.err
}

func newTestMux(gen ask.Generator, exec ask.Executor) *http.ServeMux {
	svc := ask.New(gen, exec, schema.CovidOpenData(), "covid19_open_data", 5, 30)
	return newAskMux(svc)
}

func TestServeHealth(t *testing.T) {
	mux := newTestMux(&stubGenerator{}, &stubExecutor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeAsk(t *testing.T) {
	gen := &stubGenerator{response: `{"country_name": "Japan"}`}
	exec := &stubExecutor{rows: []map[string]any{{"country_name": "Japan", "latitude": 36.2}}}
	mux := newTestMux(gen, exec)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"rows for Japan","limit":3}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"sql":"SELECT * FROM covid19_open_data WHERE country_name = @country_name LIMIT 3"`)
	assert.Contains(t, body, `"latitude":36.2`)
}

func TestServeAsk_BadRequests(t *testing.T) {
	mux := newTestMux(&stubGenerator{}, &stubExecutor{})

	t.Run("invalid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
			strings.NewReader("not json")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing question", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
			strings.NewReader(`{"limit":5}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServeAsk_MalformedModelResponse(t *testing.T) {
	gen := &stubGenerator{response: "I cannot answer that."}
	mux := newTestMux(gen, &stubExecutor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"hi"}`)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "I cannot answer that.")
}

func TestServeAsk_ExecutorError(t *testing.T) {
	gen := &stubGenerator{response: `{}`}
	exec := &stubExecutor{err: assert.AnError}
	mux := newTestMux(gen, exec)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"hi"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
