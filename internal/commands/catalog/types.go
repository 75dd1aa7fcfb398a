package catalogcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-refdocs/internal/catalog"
)

const syncCatalogMessageType = "refdocs.catalog.sync"

// ErrCatalogDisabled is returned when the catalog feature gate is closed.
var ErrCatalogDisabled = errors.New("catalog service disabled")

// CatalogSyncer exposes the subset of catalog.Service behaviour required by the sync command.
type CatalogSyncer interface {
	Sync(ctx context.Context) (*catalog.SyncResult, error)
}

// ResultCallback receives catalog results. The callback is optional and is
// invoked synchronously from the handler when a result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a catalog command execution.
type ResultEnvelope struct {
	Sync     *catalog.SyncResult
	Metadata map[string]any
}

// SyncCatalogMessage reconciles the catalog store against the JSON manifests.
type SyncCatalogMessage struct {
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SyncCatalogMessage) Type() string { return syncCatalogMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (SyncCatalogMessage) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
// Nil gate functions default to enabled.
type FeatureGates struct {
	CatalogEnabled func() bool
}

func (g FeatureGates) catalogEnabled() bool {
	if g.CatalogEnabled == nil {
		return true
	}
	return g.CatalogEnabled()
}
