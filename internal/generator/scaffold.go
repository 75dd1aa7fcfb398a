package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/pkg/activity"
)

var (
	errCatalogRequired = errors.New("generator: catalog item source is required")
	errDocsDirRequired = errors.New("generator: docs directory is required")
)

// ItemSource reports catalog items whose documentation pages are missing.
type ItemSource interface {
	MissingPages(ctx context.Context, existing map[string]struct{}) ([]catalog.MissingPage, error)
}

// ScaffoldOptions controls skeleton generation.
type ScaffoldOptions struct {
	DryRun bool
}

// ScaffoldedPage records a skeleton written (or planned) for a catalog item.
type ScaffoldedPage struct {
	Path     string
	FullName string
	Title    string
}

// ScaffoldResult reports the scaffold outcome. Skipped lists pages that
// already existed on disk when the write was attempted.
type ScaffoldResult struct {
	Written []ScaffoldedPage
	Skipped []string
	DryRun  bool
}

// Scaffold writes Markdown skeletons for catalog items that have no page in
// the docs tree. Existing files are never overwritten.
func (s *service) Scaffold(ctx context.Context, opts ScaffoldOptions) (*ScaffoldResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Corpus == nil {
		return nil, errPagesRequired
	}
	if s.deps.Catalog == nil {
		return nil, errCatalogRequired
	}
	docsDir := strings.TrimSpace(s.cfg.DocsDir)
	if docsDir == "" {
		return nil, errDocsDirRequired
	}

	pages, err := s.deps.Corpus.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: list pages: %w", err)
	}
	existing := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		existing[page.Path] = struct{}{}
	}

	missing, err := s.deps.Catalog.MissingPages(ctx, existing)
	if err != nil {
		return nil, err
	}

	result := &ScaffoldResult{DryRun: opts.DryRun}
	for _, entry := range missing {
		if entry.Item == nil || strings.TrimSpace(entry.Path) == "" {
			continue
		}
		page := ScaffoldedPage{
			Path:     entry.Path,
			FullName: entry.Item.FullName,
			Title:    scaffoldTitle(entry.Item),
		}
		if opts.DryRun {
			result.Written = append(result.Written, page)
			continue
		}
		written, err := s.writeScaffold(docsDir, entry)
		if err != nil {
			return result, err
		}
		if !written {
			result.Skipped = append(result.Skipped, entry.Path)
			continue
		}
		result.Written = append(result.Written, page)
	}

	if !opts.DryRun && len(result.Written) > 0 {
		if err := s.deps.Activity.Emit(ctx, activity.Event{
			Verb:       "scaffold",
			ObjectType: "docs",
			ObjectID:   docsDir,
			Metadata: map[string]any{
				"written": len(result.Written),
				"skipped": len(result.Skipped),
			},
		}); err != nil {
			s.deps.Logger.Warn("scaffold activity emit failed", "error", err)
		}
	}

	s.deps.Logger.Info("scaffold complete",
		"written", len(result.Written),
		"skipped", len(result.Skipped),
		"dry_run", opts.DryRun,
	)
	return result, nil
}

// writeScaffold creates the skeleton with O_EXCL so repeated runs never
// clobber a page an author already touched.
func (s *service) writeScaffold(docsDir string, entry catalog.MissingPage) (bool, error) {
	content, err := scaffoldContent(entry.Item)
	if err != nil {
		return false, err
	}
	target := filepath.Join(docsDir, filepath.FromSlash(entry.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, fmt.Errorf("generator: scaffold dir for %s: %w", entry.Path, err)
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("generator: scaffold %s: %w", entry.Path, err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return false, fmt.Errorf("generator: scaffold %s: %w", entry.Path, err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("generator: scaffold %s: %w", entry.Path, err)
	}
	return true, nil
}

// scaffoldMeta is the frontmatter block at the top of a skeleton page.
type scaffoldMeta struct {
	Title    string `yaml:"title"`
	Module   string `yaml:"module,omitempty"`
	Category string `yaml:"category,omitempty"`
	Summary  string `yaml:"summary,omitempty"`
	Reviewed bool   `yaml:"reviewed"`
}

func scaffoldTitle(item *catalog.CatalogItem) string {
	if item == nil {
		return ""
	}
	return strings.TrimSpace(item.FullName)
}

// scaffoldContent renders the Markdown skeleton for one catalog item:
// frontmatter, summary, a complexity table seeded from the item's known
// operations, an example stub, and a best-practices checklist.
func scaffoldContent(item *catalog.CatalogItem) (string, error) {
	title := scaffoldTitle(item)
	meta := scaffoldMeta{
		Title:    title,
		Module:   item.Module,
		Category: item.Category,
		Summary:  item.SummaryText(),
	}
	front, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("generator: scaffold frontmatter for %s: %w", item.FullName, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	b.WriteString("# " + title + "\n\n")
	if summary := item.SummaryText(); summary != "" {
		b.WriteString(summary + "\n\n")
	} else {
		b.WriteString("_Add a short description of `" + title + "`._\n\n")
	}

	b.WriteString("## Time Complexity\n\n")
	b.WriteString("| Operation | Time | Space | Notes |\n")
	b.WriteString("|-----------|------|-------|-------|\n")
	if len(item.Operations) == 0 {
		b.WriteString("| `" + title + "` | O(?) | O(?) | |\n")
	}
	for _, op := range item.Operations {
		name := strings.TrimSpace(op.Name)
		if name != "" {
			name = "`" + name + "`"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			scaffoldCell(name), scaffoldCell(op.Time), scaffoldCell(op.Space), scaffoldCell(op.Notes)))
	}
	b.WriteString("\n")

	writeScaffoldList(&b, "Contents", item.Contents)
	writeScaffoldList(&b, "Methods", item.Methods)

	b.WriteString("## Examples\n\n")
	b.WriteString("```python\n")
	b.WriteString("# Usage example for " + title + "\n")
	b.WriteString("```\n\n")

	b.WriteString("## Best Practices\n\n")
	b.WriteString("- ✅ DO document the common case first\n")
	b.WriteString("- ❌ DON'T leave complexity cells as O(?)\n")

	return b.String(), nil
}

func writeScaffoldList(b *strings.Builder, heading string, entries []string) {
	if len(entries) == 0 {
		return
	}
	b.WriteString("## " + heading + "\n\n")
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		b.WriteString("- `" + entry + "`\n")
	}
	b.WriteString("\n")
}

// scaffoldCell keeps table rows aligned when a source field is blank.
func scaffoldCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return " "
	}
	return value
}
