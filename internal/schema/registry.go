// Package schema validates the catalog data files against their embedded
// JSON Schemas and projects them into registry documents for host
// applications.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-refdocs/corpus"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// dataFileSchemas maps data file names to their embedded schema resources.
var dataFileSchemas = map[string]string{
	"builtins.json": "schemas/builtins.schema.json",
	"stdlib.json":   "schemas/stdlib.schema.json",
}

// Registry holds the compiled Draft 2020-12 schemas for the data files. It
// satisfies the corpus DataValidator seam.
type Registry struct {
	compiled map[string]*jsonschema.Schema
	raw      map[string]map[string]any
}

// NewRegistry compiles the embedded schemas. Compilation failures indicate a
// broken build, not bad input data.
func NewRegistry() (*Registry, error) {
	registry := &Registry{
		compiled: make(map[string]*jsonschema.Schema, len(dataFileSchemas)),
		raw:      make(map[string]map[string]any, len(dataFileSchemas)),
	}

	for name, resource := range dataFileSchemas {
		data, err := schemaFS.ReadFile(resource)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrSchemaCompile, resource, err)
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrSchemaCompile, resource, err)
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(resource, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: add %s: %v", ErrSchemaCompile, resource, err)
		}
		compiled, err := compiler.Compile(resource)
		if err != nil {
			return nil, fmt.Errorf("%w: compile %s: %v", ErrSchemaCompile, resource, err)
		}

		registry.compiled[name] = compiled
		registry.raw[name] = raw
	}

	return registry, nil
}

// Names returns the data file names the registry can validate, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.compiled))
	for name := range r.compiled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document returns the raw schema document for a data file name.
func (r *Registry) Document(name string) (map[string]any, bool) {
	doc, ok := r.raw[name]
	return doc, ok
}

// Validate checks a decoded data document against the schema registered for
// name. One issue is returned per leaf violation; nil means valid.
func (r *Registry) Validate(name string, doc any) []corpus.ValidationIssue {
	compiled, ok := r.compiled[name]
	if !ok {
		return []corpus.ValidationIssue{{
			Code:   corpus.IssueDataSchema,
			Path:   name,
			Detail: ErrSchemaUnknown.Error(),
		}}
	}

	if err := compiled.Validate(doc); err != nil {
		return flattenIssues(name, err)
	}
	return nil
}

// flattenIssues walks the cause tree and keeps the leaves, which carry the
// specific violations.
func flattenIssues(name string, err error) []corpus.ValidationIssue {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []corpus.ValidationIssue{{
			Code:   corpus.IssueDataSchema,
			Path:   name,
			Detail: err.Error(),
		}}
	}

	issues := []corpus.ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, corpus.ValidationIssue{
				Code:   corpus.IssueDataSchema,
				Path:   name,
				Detail: fmt.Sprintf("%s: %s", instanceLocation(node.InstanceLocation), strings.TrimSpace(node.Message)),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}

func instanceLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return "#"
	}
	if !strings.HasPrefix(location, "#") {
		return "#" + location
	}
	return location
}
