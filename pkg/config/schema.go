package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaDocument string

const schemaURL = "stubd-server.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema describing a configuration document.
func Schema() string {
	return schemaDocument
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaDocument)); err != nil {
			schemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks the structure of a raw configuration document:
// unknown keys, wrong value types and missing required keys. YAML input is
// converted to its JSON form first.
func ValidateSchema(data []byte, format Format) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData := data
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		if doc == nil {
			return fmt.Errorf("%w: document is empty", ErrSchema)
		}
		jsonData, err = json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	} else if !json.Valid(data) {
		return ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := sch.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w:%s", ErrSchema, formatSchemaError(verr))
		}
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// formatSchemaError flattens the leaf causes of a schema error into one
// line per problem, each prefixed with its instance location.
func formatSchemaError(verr *jsonschema.ValidationError) string {
	var b strings.Builder
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			fmt.Fprintf(&b, "\n  %s: %s", loc, e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return b.String()
}
