package corpus

import (
	"errors"
	"fmt"
)

var (
	ErrPathRequired      = errors.New("corpus: page path required")
	ErrPageNotFound      = errors.New("corpus: page not found")
	ErrNotMarkdown       = errors.New("corpus: not a markdown file")
	ErrPathOutsideRoot   = errors.New("corpus: path escapes docs root")
	ErrDocsRootMissing   = errors.New("corpus: docs root does not exist")
	ErrSiteConfigMissing = errors.New("corpus: site config not found")
	ErrSiteConfigInvalid = errors.New("corpus: site config invalid")
	ErrDataFileMissing   = errors.New("corpus: data file not found")
	ErrDataFileInvalid   = errors.New("corpus: data file invalid")
	ErrCorpusInvalid     = errors.New("corpus: structure validation failed")
)

// InvalidCorpusError carries the structure-validation findings for callers
// that need more than the sentinel.
type InvalidCorpusError struct {
	Issues []ValidationIssue
}

func (e *InvalidCorpusError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrCorpusInvalid.Error()
	}
	return fmt.Sprintf("%s: %d issue(s), first: %s %s", ErrCorpusInvalid.Error(), len(e.Issues), e.Issues[0].Code, e.Issues[0].Path)
}

func (e *InvalidCorpusError) Unwrap() error {
	return ErrCorpusInvalid
}
