package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	crud "github.com/goliatone/go-crud"

	"github.com/goliatone/go-refdocs/corpus"
)

func TestNewRegistry(t *testing.T) {
	registry := newTestRegistry(t)

	names := registry.Names()
	if len(names) != 2 || names[0] != "builtins.json" || names[1] != "stdlib.json" {
		t.Fatalf("unexpected registry names: %#v", names)
	}

	doc, ok := registry.Document("builtins.json")
	if !ok {
		t.Fatalf("expected raw builtins schema document")
	}
	if doc["title"] != "Builtins catalog data" {
		t.Fatalf("unexpected schema title: %v", doc["title"])
	}
}

func TestRegistryValidate_ValidDocuments(t *testing.T) {
	registry := newTestRegistry(t)

	builtins := decodeJSON(t, `{
		"version": "3.11",
		"items": [
			{"name": "list", "category": "types", "operations": [
				{"name": "append(x)", "time": "O(1) amortized", "space": "O(1)"}
			]},
			{"name": "len", "category": "functions"}
		]
	}`)

	if issues := registry.Validate("builtins.json", builtins); len(issues) != 0 {
		t.Fatalf("expected valid builtins document, got %#v", issues)
	}

	stdlib := decodeJSON(t, `{
		"version": "3.11",
		"modules": [
			{"name": "heapq", "members": [
				{"name": "heappush", "kind": "function"}
			]}
		]
	}`)

	if issues := registry.Validate("stdlib.json", stdlib); len(issues) != 0 {
		t.Fatalf("expected valid stdlib document, got %#v", issues)
	}
}

func TestRegistryValidate_ReportsLeafViolations(t *testing.T) {
	registry := newTestRegistry(t)

	doc := decodeJSON(t, `{
		"version": "3.11",
		"items": [
			{"name": "list"}
		]
	}`)

	issues := registry.Validate("builtins.json", doc)
	if len(issues) == 0 {
		t.Fatalf("expected missing category to be reported")
	}

	found := false
	for _, issue := range issues {
		if issue.Code != corpus.IssueDataSchema {
			t.Fatalf("expected data schema code, got %q", issue.Code)
		}
		if issue.Path != "builtins.json" {
			t.Fatalf("expected issue path builtins.json, got %q", issue.Path)
		}
		if strings.Contains(issue.Detail, "#/items/0") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an issue located at #/items/0, got %#v", issues)
	}
}

func TestRegistryValidate_RejectsBadEnum(t *testing.T) {
	registry := newTestRegistry(t)

	doc := decodeJSON(t, `{
		"version": "3.11",
		"modules": [
			{"name": "heapq", "members": [{"name": "heappush", "kind": "macro"}]}
		]
	}`)

	issues := registry.Validate("stdlib.json", doc)
	if len(issues) == 0 {
		t.Fatalf("expected kind enum violation")
	}
}

func TestRegistryValidate_UnknownName(t *testing.T) {
	registry := newTestRegistry(t)

	issues := registry.Validate("extras.json", map[string]any{})
	if len(issues) != 1 || issues[0].Detail != ErrSchemaUnknown.Error() {
		t.Fatalf("expected unknown-schema issue, got %#v", issues)
	}
}

func TestProjectDataFileRegistersSchemas(t *testing.T) {
	registry := newTestRegistry(t)

	schemaDoc, ok := registry.Document("builtins.json")
	if !ok {
		t.Fatalf("expected builtins schema document")
	}

	projection, err := ProjectDataFile("builtins.json", "Builtins catalog", "3.11", schemaDoc)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	adapter := crudRegistryAdapter{}
	if err := RegisterProjections(context.Background(), adapter, []*Projection{projection}); err != nil {
		t.Fatalf("register: %v", err)
	}

	entry, ok := crud.GetSchema("builtins")
	if !ok {
		t.Fatalf("expected builtins schema registered")
	}
	if entry.Document["openapi"] == nil {
		t.Fatalf("expected openapi document in registry")
	}
	components, ok := entry.Document["components"].(map[string]any)
	if !ok {
		t.Fatalf("expected components in document")
	}
	schemas, ok := components["schemas"].(map[string]any)
	if !ok {
		t.Fatalf("expected schemas in document")
	}
	if _, ok := schemas["builtins"]; !ok {
		t.Fatalf("expected builtins schema component")
	}
	if meta, ok := entry.Document["x-refdocs"].(map[string]any); !ok || meta["data_file"] != "builtins.json" {
		t.Fatalf("expected x-refdocs metadata, got %#v", entry.Document["x-refdocs"])
	}
}

func TestProjectDataFile_RequiresSchema(t *testing.T) {
	if _, err := ProjectDataFile("builtins.json", "", "", nil); err == nil {
		t.Fatalf("expected projection error for nil schema")
	}
}

// crudRegistryAdapter bridges schema projections into the go-crud registry.
type crudRegistryAdapter struct{}

func (a crudRegistryAdapter) Register(_ context.Context, name string, doc map[string]any) error {
	plural := name + "s"
	if ok := crud.RegisterSchemaDocument(name, plural, doc); !ok {
		return fmt.Errorf("crud registry rejected document")
	}
	return nil
}

func newTestRegistry(tb testing.TB) *Registry {
	tb.Helper()
	registry, err := NewRegistry()
	if err != nil {
		tb.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func decodeJSON(tb testing.TB, raw string) map[string]any {
	tb.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		tb.Fatalf("decode test document: %v", err)
	}
	return doc
}
