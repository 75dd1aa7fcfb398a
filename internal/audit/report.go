package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-refdocs/internal/catalog"
)

// ReportFileName is the audit artifact written under the data directory.
const ReportFileName = "documentation_audit.json"

const missingDisplayLimit = 20

// Coverage describes documentation coverage for one area of the corpus.
type Coverage struct {
	Total           int                 `json:"total"`
	Documented      int                 `json:"documented"`
	CoveragePercent float64             `json:"coverage_percent"`
	Missing         []string            `json:"missing"`
	ByCategory      map[string][]string `json:"by_category,omitempty"`
}

// Summary aggregates both areas.
type Summary struct {
	TotalItems             int     `json:"total_items"`
	TotalDocumented        int     `json:"total_documented"`
	OverallCoveragePercent float64 `json:"overall_coverage_percent"`
}

// Report is the coverage audit artifact.
type Report struct {
	Timestamp *time.Time `json:"timestamp"`
	Builtins  Coverage   `json:"builtins"`
	Stdlib    Coverage   `json:"stdlib"`
	Summary   Summary    `json:"summary"`
}

// Universe is the documentable item space the audit measures against.
type Universe struct {
	// BuiltinsByCategory maps a category to its sorted bare builtin names.
	BuiltinsByCategory map[string][]string
	// StdlibModules lists module names, sorted.
	StdlibModules []string
}

// Documented holds the page stems found per area.
type Documented struct {
	Builtins []string
	Stdlib   []string
}

// UniverseFromItems derives the audit universe from catalog items. Builtins
// keep their bare name (no "builtins." prefix); stdlib entries count modules
// only, since members share their module's page.
func UniverseFromItems(items []*catalog.CatalogItem) Universe {
	universe := Universe{BuiltinsByCategory: map[string][]string{}}

	for _, item := range items {
		switch {
		case item.Origin == catalog.OriginBuiltins:
			name := strings.TrimPrefix(item.FullName, "builtins.")
			universe.BuiltinsByCategory[item.Category] = append(universe.BuiltinsByCategory[item.Category], name)
		case item.Origin == catalog.OriginStdlib && item.Kind == catalog.KindModule:
			universe.StdlibModules = append(universe.StdlibModules, item.FullName)
		}
	}

	for category := range universe.BuiltinsByCategory {
		sort.Strings(universe.BuiltinsByCategory[category])
	}
	sort.Strings(universe.StdlibModules)
	return universe
}

// ScanDocumented collects markdown stems from docs/builtins and docs/stdlib.
// The index page never counts and missing directories yield empty lists.
func ScanDocumented(docsDir string) (Documented, error) {
	builtins, err := scanStems(filepath.Join(docsDir, "builtins"))
	if err != nil {
		return Documented{}, err
	}
	stdlib, err := scanStems(filepath.Join(docsDir, "stdlib"))
	if err != nil {
		return Documented{}, err
	}
	return Documented{Builtins: builtins, Stdlib: stdlib}, nil
}

func scanStems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: scan %s: %w", dir, err)
	}

	var stems []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if filepath.Ext(name) != ".md" {
			continue
		}
		stem := strings.TrimSuffix(name, ".md")
		if stem == "index" {
			continue
		}
		stems = append(stems, stem)
	}
	return stems, nil
}

// BuildReport computes coverage of the documented stems against the universe.
// Documented counts are taken verbatim from the stems found on disk, so a
// stray page that matches no known item still counts as documented.
func BuildReport(universe Universe, documented Documented, timestamp *time.Time) *Report {
	var allBuiltins []string
	for _, names := range universe.BuiltinsByCategory {
		allBuiltins = append(allBuiltins, names...)
	}

	builtinSet := toSet(documented.Builtins)
	stdlibSet := toSet(documented.Stdlib)

	missingBuiltins := []string{}
	for _, name := range allBuiltins {
		if _, ok := builtinSet[name]; !ok {
			missingBuiltins = append(missingBuiltins, name)
		}
	}
	sort.Strings(missingBuiltins)

	missingStdlib := []string{}
	for _, name := range universe.StdlibModules {
		if _, ok := stdlibSet[name]; !ok {
			missingStdlib = append(missingStdlib, name)
		}
	}

	totalBuiltins := len(allBuiltins)
	totalStdlib := len(universe.StdlibModules)
	docBuiltins := len(documented.Builtins)
	docStdlib := len(documented.Stdlib)

	return &Report{
		Timestamp: timestamp,
		Builtins: Coverage{
			Total:           totalBuiltins,
			Documented:      docBuiltins,
			CoveragePercent: percent(docBuiltins, totalBuiltins),
			Missing:         missingBuiltins,
			ByCategory:      universe.BuiltinsByCategory,
		},
		Stdlib: Coverage{
			Total:           totalStdlib,
			Documented:      docStdlib,
			CoveragePercent: percent(docStdlib, totalStdlib),
			Missing:         missingStdlib,
		},
		Summary: Summary{
			TotalItems:             totalBuiltins + totalStdlib,
			TotalDocumented:        docBuiltins + docStdlib,
			OverallCoveragePercent: percent(docBuiltins+docStdlib, totalBuiltins+totalStdlib),
		},
	}
}

// WriteReportFile saves the report under dataDir with two-space indentation
// and returns the artifact path.
func WriteReportFile(dataDir string, report *Report) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("audit: create data dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("audit: encode report: %w", err)
	}

	path := filepath.Join(dataDir, ReportFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("audit: write report: %w", err)
	}
	return path, nil
}

// WriteConsole renders the sectioned coverage report.
func WriteConsole(w io.Writer, report *Report) {
	rule := strings.Repeat("=", 70)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "DOCUMENTATION COVERAGE AUDIT")
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\n📦 BUILTINS")
	fmt.Fprintf(w, "  Total: %d\n", report.Builtins.Total)
	fmt.Fprintf(w, "  Documented: %d\n", report.Builtins.Documented)
	fmt.Fprintf(w, "  Coverage: %.1f%%\n", report.Builtins.CoveragePercent)
	writeMissing(w, report.Builtins.Missing)

	fmt.Fprintln(w, "\n📚 STDLIB MODULES")
	fmt.Fprintf(w, "  Total: %d\n", report.Stdlib.Total)
	fmt.Fprintf(w, "  Documented: %d\n", report.Stdlib.Documented)
	fmt.Fprintf(w, "  Coverage: %.1f%%\n", report.Stdlib.CoveragePercent)
	writeMissing(w, report.Stdlib.Missing)

	fmt.Fprintln(w, "\n📊 OVERALL")
	fmt.Fprintf(w, "  Total Items: %d\n", report.Summary.TotalItems)
	fmt.Fprintf(w, "  Documented: %d\n", report.Summary.TotalDocumented)
	fmt.Fprintf(w, "  Coverage: %.1f%%\n", report.Summary.OverallCoveragePercent)

	fmt.Fprintf(w, "\n%s\n", rule)
}

func writeMissing(w io.Writer, missing []string) {
	if len(missing) == 0 {
		return
	}

	fmt.Fprintf(w, "\n  ❌ Missing (%d):\n", len(missing))
	limit := len(missing)
	if limit > missingDisplayLimit {
		limit = missingDisplayLimit
	}
	for _, name := range missing[:limit] {
		fmt.Fprintf(w, "    - %s\n", name)
	}
	if len(missing) > missingDisplayLimit {
		fmt.Fprintf(w, "    ... and %d more\n", len(missing)-missingDisplayLimit)
	}
}

func percent(documented, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(100*float64(documented)/float64(total)*10) / 10
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
