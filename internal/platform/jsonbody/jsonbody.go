// Package jsonbody decodes JSON request bodies after checking them against
// a JSON Schema. Schemas describe shape only: a field of the wrong type is
// rejected, a missing field is left for the caller to default.
package jsonbody

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled request schema.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles schemaMap under name.
func Compile(name string, schemaMap map[string]any) (*Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(name string, schemaMap map[string]any) *Schema {
	s, err := Compile(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

// Object builds an object schema from property schemas. Additional
// properties are allowed.
func Object(props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

// String is the schema for a string property.
func String() map[string]any {
	return map[string]any{"type": "string"}
}

// Decode reads r, validates it and unmarshals it into v. An empty body is
// treated as an empty object.
func (s *Schema) Decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	return s.DecodeBytes(data, v)
}

// DecodeBytes is Decode over an in-memory body.
func (s *Schema) DecodeBytes(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("body does not match %s: %w", s.name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", s.name, err)
	}
	return nil
}
