// Package schema declares the optional-field record schemas that model
// responses are validated against.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldType is the scalar constraint a declared field carries.
type FieldType string

const (
	// TypeString accepts any JSON string.
	TypeString FieldType = "string"
	// TypeNumber accepts JSON numbers only; numeric strings fail.
	TypeNumber FieldType = "number"
	// TypeDate accepts strings matching YYYY-MM-DD.
	TypeDate FieldType = "date"
)

// datePattern is a shape check, not a calendar check.
const datePattern = `^\d{4}-\d{2}-\d{2}$`

// Field is one named, optional scalar field.
type Field struct {
	Name string
	Type FieldType
}

// Schema is an immutable set of optional scalar fields. Validation is a
// permissive superset check: every present declared field must satisfy its
// constraint, absent fields impose nothing, and unknown fields are ignored.
// A present declared field may be null; null is treated as "no value", not
// as a constraint violation.
type Schema struct {
	fields   []Field
	byName   map[string]FieldType
	compiled *jsonschema.Schema
}

// New builds a Schema from the given fields and compiles its JSON Schema
// document for validation.
func New(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, eris.New("schema: no fields declared")
	}

	byName := make(map[string]FieldType, len(fields))
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, eris.New("schema: empty field name")
		}
		if _, dup := byName[f.Name]; dup {
			return nil, eris.New(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		switch f.Type {
		case TypeString:
			props[f.Name] = map[string]any{"type": []string{"string", "null"}}
		case TypeNumber:
			props[f.Name] = map[string]any{"type": []string{"number", "null"}}
		case TypeDate:
			// pattern only applies to string instances, so null still passes.
			props[f.Name] = map[string]any{"type": []string{"string", "null"}, "pattern": datePattern}
		default:
			return nil, eris.New(fmt.Sprintf("schema: unknown type %q for field %q", f.Type, f.Name))
		}
		byName[f.Name] = f.Type
	}

	doc, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
	})
	if err != nil {
		return nil, eris.Wrap(err, "schema: marshal document")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return nil, eris.Wrap(err, "schema: add resource")
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, eris.Wrap(err, "schema: compile")
	}

	return &Schema{
		fields:   append([]Field(nil), fields...),
		byName:   byName,
		compiled: compiled,
	}, nil
}

// MustNew is New for statically declared schemas; it panics on a bad
// declaration.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Validate checks a decoded JSON object against the schema.
func (s *Schema) Validate(doc map[string]any) error {
	if err := s.compiled.Validate(doc); err != nil {
		return eris.Wrap(err, "schema: validate")
	}
	return nil
}

// CovidOpenData is the schema for the bundled COVID-19 open-data use case.
func CovidOpenData() *Schema {
	return MustNew(
		Field{Name: "country_name", Type: TypeString},
		Field{Name: "latitude", Type: TypeNumber},
		Field{Name: "longitude", Type: TypeNumber},
		Field{Name: "date", Type: TypeDate},
	)
}
