// Package ask orchestrates the natural-language query flow: model call,
// response extraction, query building, execution.
package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/extract"
	"github.com/azoom-yongrok-choi/dummyMCP/internal/query"
	"github.com/azoom-yongrok-choi/dummyMCP/internal/schema"
)

// MaxLimit caps caller-supplied row limits.
const MaxLimit = 30

// Generator produces raw text from a system prompt and user input. It is the
// opaque model-call collaborator; one text result per call, no retries.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Executor runs a parameterized query and returns its rows. Placeholder
// values are bound out-of-band, never substituted into the SQL text.
type Executor interface {
	Execute(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error)
}

// Service wires a Generator and an Executor around the extraction and
// query-building core for one table and one schema.
type Service struct {
	gen          Generator
	exec         Executor
	schema       *schema.Schema
	table        string
	defaultLimit int
	maxLimit     int
}

// New creates a Service. table is trusted caller configuration. A
// defaultLimit <= 0 falls back to query.DefaultLimit; a maxLimit <= 0 falls
// back to MaxLimit.
func New(gen Generator, exec Executor, s *schema.Schema, table string, defaultLimit, maxLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = query.DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	return &Service{
		gen:          gen,
		exec:         exec,
		schema:       s,
		table:        table,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Answer carries everything produced along the ask path.
type Answer struct {
	Filters map[string]any   `json:"filters"`
	SQL     string           `json:"sql"`
	Params  map[string]any   `json:"params"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

// Plan runs the natural-language path up to query building without
// executing: model call, extraction, Build. On a malformed model response
// the returned error is a *extract.MalformedResponseError whose Raw field
// holds the model text verbatim.
func (s *Service) Plan(ctx context.Context, question string, limit int) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, eris.New("ask: empty question")
	}

	raw, err := s.gen.Generate(ctx, s.systemPrompt(), question)
	if err != nil {
		return nil, eris.Wrap(err, "ask: generate")
	}

	record, err := extract.Extract(raw, s.schema)
	if err != nil {
		zap.L().Debug("response extraction failed",
			zap.String("raw", raw),
			zap.Error(err))
		return nil, err
	}

	q := query.Build(s.table, record, s.clampLimit(limit))
	return &Answer{Filters: record, SQL: q.SQL, Params: q.Params}, nil
}

// Ask is Plan followed by execution.
func (s *Service) Ask(ctx context.Context, question string, limit int) (*Answer, error) {
	ans, err := s.Plan(ctx, question, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.Execute(ctx, ans.SQL, ans.Params)
	if err != nil {
		return nil, eris.Wrap(err, "ask: execute")
	}
	ans.Rows = rows
	return ans, nil
}

// Query runs a caller-supplied filter directly, without a model call. Keys
// are trusted field names; undeclared keys are rejected before building.
func (s *Service) Query(ctx context.Context, filters map[string]any, limit int) (*Answer, error) {
	for name := range filters {
		if !s.schema.Has(name) {
			return nil, eris.New(fmt.Sprintf("ask: unknown filter field %q", name))
		}
	}

	q := query.Build(s.table, filters, s.clampLimit(limit))
	rows, err := s.exec.Execute(ctx, q.SQL, q.Params)
	if err != nil {
		return nil, eris.Wrap(err, "ask: execute")
	}
	return &Answer{Filters: filters, SQL: q.SQL, Params: q.Params, Rows: rows}, nil
}

// clampLimit keeps caller-supplied limits inside [1, maxLimit]; zero and
// negative values mean "use the default".
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// systemPrompt instructs the model to emit a bare JSON filter object for the
// schema's fields.
func (s *Service) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You translate questions about a tabular dataset into a JSON filter object.\n\nFields:\n")
	for _, f := range s.schema.Fields() {
		switch f.Type {
		case schema.TypeDate:
			fmt.Fprintf(&b, "- %s: string in YYYY-MM-DD format\n", f.Name)
		case schema.TypeNumber:
			fmt.Fprintf(&b, "- %s: number\n", f.Name)
		default:
			fmt.Fprintf(&b, "- %s: string\n", f.Name)
		}
	}
	b.WriteString(`
Rules:
- Return ONLY a JSON object, no markdown and no commentary
- Include only the fields the question constrains; omit the rest
- Use null for a field the question mentions but gives no usable value for
- Dates must be YYYY-MM-DD strings; numbers must be JSON numbers, not strings`)
	return b.String()
}
