package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReviewRun records one completed review wave.
type ReviewRun struct {
	bun.BaseModel `bun:"table:review_runs,alias:rvr"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	RanAt         time.Time `bun:"ran_at,notnull" json:"ran_at"`
	Agents        int       `bun:"agents" json:"agents"`
	Processed     int       `bun:"processed" json:"processed"`
	Skipped       int       `bun:"skipped" json:"skipped"`
	Failed        int       `bun:"failed" json:"failed"`
	QualityPassed bool      `bun:"quality_passed" json:"quality_passed"`
	Summary       *Summary  `bun:"summary,type:jsonb" json:"summary,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
