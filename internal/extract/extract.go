// Package extract recovers schema-conformant JSON objects from raw model
// output.
//
// Model text is unreliable about whitespace and prose wrapping, but two
// shapes dominate: a bare JSON object, or a JSON object inside a fenced
// code block. Extraction tries exactly those two, in that order.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/schema"
)

// fenceRe matches a fenced code block with an optional language tag on the
// opening fence. First match wins.
var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)```")

// MalformedResponseError reports that no schema-valid JSON object could be
// recovered from a model response. Raw preserves the offending text verbatim
// so callers can surface it for diagnosis; it is never discarded.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return "extract: no schema-valid JSON object in model response"
}

// Extract recovers a validated record from raw model text. Two stages, first
// success wins: the whole text trimmed and parsed directly, then the inner
// content of the first fenced code block. A stage succeeds only if its
// candidate parses as a JSON object and every present declared field
// satisfies the schema; one invalid field fails the whole object. The
// returned record holds the declared fields that were present — unknown
// fields are ignored, not rejected.
//
// Extract is a pure function and never panics; all failures are reported as
// a *MalformedResponseError.
func Extract(text string, s *schema.Schema) (map[string]any, error) {
	if rec, ok := tryParse(strings.TrimSpace(text), s); ok {
		return rec, nil
	}

	if m := fenceRe.FindStringSubmatch(text); m != nil {
		if rec, ok := tryParse(strings.TrimSpace(m[1]), s); ok {
			return rec, nil
		}
	}

	return nil, &MalformedResponseError{Raw: text}
}

// tryParse parses candidate as a JSON object and validates it against s,
// projecting the result down to declared fields.
func tryParse(candidate string, s *schema.Schema) (map[string]any, bool) {
	if candidate == "" {
		return nil, false
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, false
	}
	if doc == nil {
		// "null" decodes into a nil map without error.
		return nil, false
	}

	if err := s.Validate(doc); err != nil {
		return nil, false
	}

	rec := make(map[string]any, len(doc))
	for name, v := range doc {
		if s.Has(name) {
			rec[name] = v
		}
	}
	return rec, true
}
