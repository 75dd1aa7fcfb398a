package corpus

import (
	"strings"

	"github.com/goliatone/go-refdocs/corpus"
)

// CountPageRows counts the data rows of every complexity table in the
// supplied Markdown source using a line scan. A table starts at a header
// line containing Time, Space, and Notes followed by a separator line; the
// run of rows ends at the first line that is not a pipe row. Separator-shaped
// lines inside the run are skipped without ending it.
func CountPageRows(source []byte) int {
	lines := splitLines(source)

	total := 0
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if isComplexityHeaderLine(line) && i+1 < len(lines) && isSeparatorLine(strings.TrimSpace(lines[i+1])) {
			j := i + 2
			for j < len(lines) {
				row := strings.TrimSpace(lines[j])
				if !strings.HasPrefix(row, "|") || row == "|" {
					break
				}
				if isSeparatorLine(row) {
					j++
					continue
				}
				total++
				j++
			}
			i = j
			continue
		}
		i++
	}

	return total
}

// BuildRowCountReport aggregates per-file complexity-row counts into the
// totals report. Only files with at least one row appear in Files.
func BuildRowCountReport(pages []*corpus.Page) *corpus.RowCountReport {
	report := &corpus.RowCountReport{}

	for _, page := range pages {
		rows := CountPageRows(page.Raw)
		if rows == 0 {
			continue
		}

		report.TotalRows += rows
		report.FilesWithRows++
		report.Files = append(report.Files, corpus.RowCount{Path: page.Path, Rows: rows})

		switch page.Section {
		case corpus.SectionBuiltins:
			report.BuiltinsRows += rows
		case corpus.SectionStdlib:
			report.StdlibRows += rows
		case corpus.SectionVersions:
			report.VersionsRows += rows
		case corpus.SectionImplementations:
			report.ImplementationsRows += rows
		}
	}

	return report
}

func isComplexityHeaderLine(line string) bool {
	return strings.HasPrefix(line, "|") &&
		strings.Contains(line, "Time") &&
		strings.Contains(line, "Space") &&
		strings.Contains(line, "Notes")
}

// isSeparatorLine reports whether the line is a table separator: non-empty,
// built only from '|', '-', ':', and spaces, with at least one dash.
func isSeparatorLine(line string) bool {
	if line == "" {
		return false
	}
	hasDash := false
	for _, r := range line {
		switch r {
		case '-':
			hasDash = true
		case '|', ':', ' ':
		default:
			return false
		}
	}
	return hasDash
}

func splitLines(source []byte) []string {
	normalized := strings.ReplaceAll(string(source), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
