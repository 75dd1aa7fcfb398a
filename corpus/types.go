package corpus

import (
	"path"
	"strings"
	"time"
)

// Section identifies the top-level area of the documentation tree a page
// belongs to. The section is derived from the first path element under the
// docs root; pages sitting directly in the root report SectionRoot.
type Section string

const (
	SectionRoot            Section = "root"
	SectionBuiltins        Section = "builtins"
	SectionStdlib          Section = "stdlib"
	SectionVersions        Section = "versions"
	SectionImplementations Section = "implementations"
)

// Sections lists the non-root sections in their canonical reporting order.
var Sections = []Section{
	SectionBuiltins,
	SectionStdlib,
	SectionVersions,
	SectionImplementations,
}

// SectionForPath derives the section from a slash-separated relative path.
func SectionForPath(p string) Section {
	p = strings.TrimPrefix(path.Clean(strings.TrimSpace(p)), "./")
	first, _, found := strings.Cut(p, "/")
	if !found {
		return SectionRoot
	}
	switch Section(first) {
	case SectionBuiltins, SectionStdlib, SectionVersions, SectionImplementations:
		return Section(first)
	}
	return SectionRoot
}

// PageMeta carries the parsed frontmatter of a reference page. Every field is
// optional; pages without frontmatter produce a zero PageMeta.
type PageMeta struct {
	Title    string         `json:"title,omitempty"    yaml:"title"`
	Module   string         `json:"module,omitempty"   yaml:"module"`
	Category string         `json:"category,omitempty" yaml:"category"`
	Summary  string         `json:"summary,omitempty"  yaml:"summary"`
	Reviewed bool           `json:"reviewed,omitempty" yaml:"reviewed"`
	Tags     []string       `json:"tags,omitempty"     yaml:"tags"`
	Custom   map[string]any `json:"custom,omitempty"   yaml:"-"`
	Raw      map[string]any `json:"-"                  yaml:"-"`
}

// Page is a single Markdown reference page loaded from the docs tree.
type Page struct {
	// Path is relative to the docs root, slash form (e.g. "builtins/list.md").
	Path    string   `json:"path"`
	Section Section  `json:"section"`
	Slug    string   `json:"slug"`
	Meta    PageMeta `json:"meta"`
	Body    []byte   `json:"-"`
	Raw     []byte   `json:"-"`
	// Checksum is the hex-encoded SHA-256 of the raw file contents.
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
}

// IsIndex reports whether the page is a section (or root) index page.
func (p *Page) IsIndex() bool {
	return p != nil && path.Base(p.Path) == "index.md"
}

// ComplexityRow is one operation row of a complexity table. Cells map by
// position; missing cells stay empty and extra cells are dropped.
type ComplexityRow struct {
	Operation string `json:"operation"`
	Time      string `json:"time"`
	Space     string `json:"space"`
	Notes     string `json:"notes,omitempty"`
}

// ComplexityTable is a Big-O table extracted from a page, paired with the
// nearest preceding heading.
type ComplexityTable struct {
	Path    string          `json:"path"`
	Heading string          `json:"heading,omitempty"`
	Columns []string        `json:"columns"`
	Rows    []ComplexityRow `json:"rows"`
}

// RowCount reports the complexity rows found in a single file.
type RowCount struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// RowCountReport aggregates complexity-row totals across the docs tree.
type RowCountReport struct {
	TotalRows           int        `json:"total_rows"`
	FilesWithRows       int        `json:"total_files_with_rows"`
	BuiltinsRows        int        `json:"builtins_rows"`
	StdlibRows          int        `json:"stdlib_rows"`
	VersionsRows        int        `json:"versions_rows"`
	ImplementationsRows int        `json:"implementations_rows"`
	Files               []RowCount `json:"files,omitempty"`
}

// SectionRows returns the per-section total for the supplied section.
func (r *RowCountReport) SectionRows(section Section) int {
	if r == nil {
		return 0
	}
	switch section {
	case SectionBuiltins:
		return r.BuiltinsRows
	case SectionStdlib:
		return r.StdlibRows
	case SectionVersions:
		return r.VersionsRows
	case SectionImplementations:
		return r.ImplementationsRows
	}
	return 0
}

// ReviewSummary captures the quality signals a review pass records per page.
type ReviewSummary struct {
	Path               string `json:"path"`
	HasComplexityTable bool   `json:"has_complexity_table"`
	HasExamples        bool   `json:"has_examples"`
	HasBestPractices   bool   `json:"has_best_practices"`
	Size               int64  `json:"size"`
}

// Complete reports whether every quality signal is present.
func (s ReviewSummary) Complete() bool {
	return s.HasComplexityTable && s.HasExamples && s.HasBestPractices
}

// Issue codes reported by structure validation.
const (
	IssueMissingPage       = "missing_page"
	IssueSiteConfigMissing = "site_config_missing"
	IssueSiteConfigInvalid = "site_config_invalid"
	IssueDataFileMissing   = "data_file_missing"
	IssueDataFileInvalid   = "data_file_invalid"
	IssueDataSchema        = "data_schema"
)

// ValidationIssue is a single structure-validation finding. An empty issue
// list means the corpus is valid.
type ValidationIssue struct {
	Code   string `json:"code"`
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

// RequiredPages enumerates the reference pages every corpus checkout must
// carry, relative to the docs root.
var RequiredPages = []string{
	"index.md",
	"builtins/index.md",
	"builtins/list.md",
	"builtins/dict.md",
	"stdlib/index.md",
	"stdlib/collections.md",
	"implementations/index.md",
	"implementations/cpython.md",
	"versions/index.md",
	"versions/py311.md",
}
