package generator

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-refdocs/corpus"
	gotheme "github.com/goliatone/go-theme"
)

// layoutData is the contract between the generator and layout templates,
// built-in or theme-provided.
type layoutData struct {
	Site        siteView
	Page        pageView
	Nav         []NavLink
	Theme       themeView
	Content     template.HTML
	GeneratedAt time.Time
}

// siteView carries site.yml fields into the layout.
type siteView struct {
	Name        string
	Description string
	BaseURL     string
	HomeURL     string
}

// pageView exposes per-page metadata to the layout.
type pageView struct {
	Title   string
	Route   string
	URL     string
	Section string
	Slug    string
	Meta    corpus.PageMeta
}

// themeView surfaces go-theme selection data to the layout.
type themeView struct {
	Name    string
	Variant string
	Tokens  map[string]string
	CSSVars map[string]string
}

func buildThemeView(selection *gotheme.Selection, cssPrefix string) themeView {
	if selection == nil {
		return themeView{Tokens: map[string]string{}, CSSVars: map[string]string{}}
	}
	return themeView{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Tokens:  selection.Tokens(),
		CSSVars: selection.CSSVariables(cssPrefix),
	}
}

// pageTitle prefers the frontmatter title and falls back to the slug, then
// the section for index pages.
func pageTitle(page *corpus.Page) string {
	if page == nil {
		return ""
	}
	if title := strings.TrimSpace(page.Meta.Title); title != "" {
		return title
	}
	if page.IsIndex() {
		if page.Section == corpus.SectionRoot {
			return "Index"
		}
		return navTitle(string(page.Section))
	}
	return page.Slug
}

// layoutTemplateKey is the go-theme template slot a theme fills to override
// the built-in page layout.
const layoutTemplateKey = "layout"

const builtinLayoutName = "builtin"

// builtinLayout keeps rendered sites self-contained when no theme is
// available. Styling stays minimal; theme CSS variables are respected.
const builtinLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Page.Title }} &middot; {{ .Site.Name }}</title>
{{- if .Site.Description }}
<meta name="description" content="{{ .Site.Description }}">
{{- end }}
<style>
:root {
{{- range $name, $value := .Theme.CSSVars }}
  {{ $name }}: {{ $value }};
{{- end }}
}
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; color: #1f2328; }
header { border-bottom: 1px solid #d1d9e0; padding: 0.75rem 1.5rem; display: flex; gap: 1.5rem; align-items: baseline; }
header a { color: inherit; text-decoration: none; }
header .site-title { font-weight: 600; }
nav a { margin-right: 1rem; color: #59636e; }
main { max-width: 52rem; margin: 0 auto; padding: 1.5rem; }
main table { border-collapse: collapse; width: 100%; }
main th, main td { border: 1px solid #d1d9e0; padding: 0.4rem 0.6rem; text-align: left; }
main pre { background: #f6f8fa; padding: 0.75rem; overflow-x: auto; }
footer { color: #59636e; font-size: 0.85rem; padding: 1rem 1.5rem; border-top: 1px solid #d1d9e0; }
</style>
</head>
<body>
<header>
  <a class="site-title" href="{{ .Site.HomeURL }}">{{ .Site.Name }}</a>
  <nav>
{{- range .Nav }}
    <a href="{{ .URL }}">{{ .Title }}</a>
{{- end }}
  </nav>
</header>
<main>
{{ .Content }}
</main>
<footer>Generated {{ .GeneratedAt.UTC.Format "2006-01-02" }}</footer>
</body>
</html>
`

// layoutRenderer executes one parsed layout template per build.
type layoutRenderer struct {
	name string
	tpl  *template.Template
}

func newBuiltinLayoutRenderer() (*layoutRenderer, error) {
	tpl, err := template.New(builtinLayoutName).Parse(builtinLayout)
	if err != nil {
		return nil, fmt.Errorf("generator: parse builtin layout: %w", err)
	}
	return &layoutRenderer{name: builtinLayoutName, tpl: tpl}, nil
}

// newLayoutRenderer resolves the layout for the build: the theme's layout
// template when the selection names one, the built-in layout otherwise.
func newLayoutRenderer(selection *gotheme.Selection, themeDir string) (*layoutRenderer, error) {
	if selection == nil {
		return newBuiltinLayoutRenderer()
	}
	rel := strings.TrimSpace(selection.Template(layoutTemplateKey, ""))
	if rel == "" {
		return newBuiltinLayoutRenderer()
	}
	full := filepath.Join(themeDir, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("generator: read theme layout %s: %w", rel, err)
	}
	name := selection.Theme + "/" + rel
	tpl, err := template.New(name).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("generator: parse theme layout %s: %w", rel, err)
	}
	return &layoutRenderer{name: name, tpl: tpl}, nil
}

func (r *layoutRenderer) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

func (r *layoutRenderer) Render(data layoutData) (string, error) {
	if r == nil || r.tpl == nil {
		return "", fmt.Errorf("generator: layout renderer not initialised")
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("generator: execute layout %s: %w", r.name, err)
	}
	return buf.String(), nil
}

// RenderedPage captures the rendered HTML output for a single page.
type RenderedPage struct {
	Path     string
	Section  corpus.Section
	Slug     string
	Route    string
	URL      string
	Output   string
	Template string
	HTML     string
	Checksum string
	ModTime  time.Time
	Duration time.Duration
}

// RenderDiagnostic records rendering timing and errors per page.
type RenderDiagnostic struct {
	Path     string
	Route    string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}
