package generator

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GeneratorRun records one completed site build.
type GeneratorRun struct {
	bun.BaseModel `bun:"table:generator_runs,alias:gnr"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	RanAt        time.Time `bun:"ran_at,notnull" json:"ran_at"`
	PagesBuilt   int       `bun:"pages_built" json:"pages_built"`
	PagesSkipped int       `bun:"pages_skipped" json:"pages_skipped"`
	AssetsBuilt  int       `bun:"assets_built" json:"assets_built"`
	Force        bool      `bun:"force" json:"force"`
	DurationMS   int64     `bun:"duration_ms" json:"duration_ms"`
	SiteHash     string    `bun:"site_hash" json:"site_hash,omitempty"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
