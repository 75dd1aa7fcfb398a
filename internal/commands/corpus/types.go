package corpuscmd

import (
	"context"

	"github.com/goliatone/go-refdocs/corpus"
)

const (
	validateCorpusMessageType = "refdocs.corpus.validate"
	countRowsMessageType      = "refdocs.corpus.count"
)

// CorpusInspector exposes the subset of corpus service behaviour required by the corpus commands.
type CorpusInspector interface {
	Validate(ctx context.Context) ([]corpus.ValidationIssue, error)
	CountRows(ctx context.Context) (*corpus.RowCountReport, error)
}

// ResultCallback receives corpus inspection results. The callback is optional
// and is invoked synchronously from the handler when a result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a corpus command execution.
type ResultEnvelope struct {
	Issues   []corpus.ValidationIssue
	RowCount *corpus.RowCountReport
	Metadata map[string]any
}

// ValidateCorpusMessage checks the docs tree for structural problems: missing
// required pages, malformed tables, and empty complexity cells.
type ValidateCorpusMessage struct {
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ValidateCorpusMessage) Type() string { return validateCorpusMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (ValidateCorpusMessage) Validate() error { return nil }

// CountRowsMessage totals complexity table rows across the docs tree.
type CountRowsMessage struct {
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (CountRowsMessage) Type() string { return countRowsMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CountRowsMessage) Validate() error { return nil }
