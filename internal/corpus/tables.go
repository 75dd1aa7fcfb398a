package corpus

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-refdocs/corpus"
)

// ExtractTables parses the Markdown source and returns every complexity
// table it contains, paired with the nearest preceding heading. A table
// qualifies when its header row carries Time, Space, and Notes columns.
func ExtractTables(path string, source []byte) ([]corpus.ComplexityTable, error) {
	engine := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := engine.Parser().Parse(text.NewReader(source))

	var tables []corpus.ComplexityTable
	var lastHeading string

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			lastHeading = nodeText(n, source)
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			table := buildTable(path, lastHeading, n, source)
			if isComplexityColumns(table.Columns) {
				tables = append(tables, table)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpus tables %s: %w", path, err)
	}

	return tables, nil
}

func buildTable(path, heading string, table *extast.Table, source []byte) corpus.ComplexityTable {
	out := corpus.ComplexityTable{
		Path:    path,
		Heading: heading,
	}

	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			out.Columns = rowCells(row, source)
		case *extast.TableRow:
			out.Rows = append(out.Rows, buildRow(rowCells(row, source)))
		}
	}

	return out
}

// buildRow maps cells to the canonical columns by position. Extra cells are
// dropped and missing cells stay empty.
func buildRow(cells []string) corpus.ComplexityRow {
	var row corpus.ComplexityRow
	if len(cells) > 0 {
		row.Operation = cells[0]
	}
	if len(cells) > 1 {
		row.Time = cells[1]
	}
	if len(cells) > 2 {
		row.Space = cells[2]
	}
	if len(cells) > 3 {
		row.Notes = cells[3]
	}
	return row
}

func rowCells(row ast.Node, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); !ok {
			continue
		}
		cells = append(cells, nodeText(cell, source))
	}
	return cells
}

func isComplexityColumns(columns []string) bool {
	var hasTime, hasSpace, hasNotes bool
	for _, col := range columns {
		switch strings.TrimSpace(col) {
		case "Time":
			hasTime = true
		case "Space":
			hasSpace = true
		case "Notes":
			hasNotes = true
		}
	}
	return hasTime && hasSpace && hasNotes
}

// nodeText flattens the text content of a node, including code spans and
// emphasised runs inside table cells.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
