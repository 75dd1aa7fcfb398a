package catalog_test

import (
	"testing"

	"github.com/goliatone/go-refdocs/internal/catalog"
)

func TestDescribe_Function(t *testing.T) {
	item := &catalog.CatalogItem{FullName: "builtins.len", Kind: catalog.KindFunction}

	got := catalog.Describe(item, "builtins.list")
	want := "=== builtins.len ===\nType: function\n\nNext: builtins.list\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDescribe_ClassWithMembers(t *testing.T) {
	item := &catalog.CatalogItem{
		FullName:   "builtins.dict",
		Kind:       catalog.KindClass,
		Methods:    []string{"clear", "get"},
		Attributes: []string{"__doc__"},
	}

	got := catalog.Describe(item, "builtins.len")
	want := "=== builtins.dict ===\n" +
		"Type: class\n" +
		"\nMethods:\n  clear\n  get\n" +
		"\nAttributes:\n  __doc__\n" +
		"\nNext: builtins.len\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDescribe_ClassWithoutMembers(t *testing.T) {
	item := &catalog.CatalogItem{FullName: "builtins.KeyError", Kind: catalog.KindClass}

	got := catalog.Describe(item, "builtins.len")
	want := "=== builtins.KeyError ===\nType: class\n\n(no public direct members)\n\nNext: builtins.len\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDescribe_ModuleWithContents(t *testing.T) {
	item := &catalog.CatalogItem{
		FullName: "collections",
		Kind:     catalog.KindModule,
		Contents: []string{"Counter", "deque"},
	}

	got := catalog.Describe(item, "collections.Counter")
	want := "=== collections ===\nType: module\n\nContents:\n  Counter\n  deque\n\nNext: collections.Counter\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDescribe_ModuleWithoutContents(t *testing.T) {
	item := &catalog.CatalogItem{FullName: "marshal", Kind: catalog.KindModule}

	got := catalog.Describe(item, "math")
	want := "=== marshal ===\nType: module\n\nNext: math\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDescribe_OtherKind(t *testing.T) {
	item := &catalog.CatalogItem{FullName: "builtins.True", Kind: catalog.KindConstant}

	got := catalog.Describe(item, "collections")
	want := "=== builtins.True ===\nType: constant\n\nNext: collections\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDescribe_LastItem(t *testing.T) {
	item := &catalog.CatalogItem{FullName: "marshal", Kind: catalog.KindModule}

	got := catalog.Describe(item, "")
	want := "=== marshal ===\nType: module\n\nThis is the last item.\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}
