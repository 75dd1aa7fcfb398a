package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
)

// SchemaSink receives projected schema documents, typically a host
// application's resource registry.
type SchemaSink interface {
	Register(ctx context.Context, name string, doc map[string]any) error
}

// Projection wraps a data file schema in a minimal OpenAPI document so hosts
// can serve it next to their own resources.
type Projection struct {
	Name     string
	Document map[string]any
}

// ProjectDataFile builds the OpenAPI projection for a data file schema. The
// resource name is the file name without extension ("builtins.json" =>
// "builtins").
func ProjectDataFile(fileName, title, version string, schema map[string]any) (*Projection, error) {
	resource := strings.TrimSuffix(strings.TrimSpace(fileName), ".json")
	if resource == "" || len(schema) == 0 {
		return nil, ErrProjectionInvalid
	}
	if strings.TrimSpace(title) == "" {
		title = resource
	}
	if strings.TrimSpace(version) == "" {
		version = "1.0.0"
	}

	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   title,
			"version": version,
		},
		"paths": map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{
				componentName(resource): schema,
			},
		},
		"x-refdocs": map[string]any{
			"data_file": fileName,
		},
	}

	return &Projection{Name: resource, Document: doc}, nil
}

// RegisterProjections registers projections in the provided sink.
func RegisterProjections(ctx context.Context, sink SchemaSink, projections []*Projection) error {
	if sink == nil || len(projections) == 0 {
		return nil
	}
	for _, projection := range projections {
		if projection == nil || projection.Document == nil {
			continue
		}
		if err := sink.Register(ctx, projection.Name, projection.Document); err != nil {
			return fmt.Errorf("schema: register projection %s: %w", projection.Name, err)
		}
	}
	return nil
}

func componentName(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil || normalized == "" {
		normalized = value
	}
	return strings.ReplaceAll(normalized, "-", "_")
}
