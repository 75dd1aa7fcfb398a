package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDataFileUnreadable signals a data file that could not be read.
	ErrDataFileUnreadable = errors.New("catalog: data file unreadable")

	// ErrDataFileMalformed signals a data file that is not valid JSON.
	ErrDataFileMalformed = errors.New("catalog: data file malformed")

	// ErrCatalogEmpty signals an operation that needs at least one item.
	ErrCatalogEmpty = errors.New("catalog: no items")

	// ErrWalkComplete signals that the cursor walk reached the last item.
	ErrWalkComplete = errors.New("catalog: walk complete")
)

// NotFoundError reports a missing catalog record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// WalkCompleteError reports that the given item is the last one in the walk.
type WalkCompleteError struct {
	Name string
}

func (e *WalkCompleteError) Error() string {
	return fmt.Sprintf("'%s' is the last item. Documentation complete!", e.Name)
}

func (e *WalkCompleteError) Unwrap() error {
	return ErrWalkComplete
}
