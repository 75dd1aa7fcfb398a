package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AuditRun records one completed coverage audit.
type AuditRun struct {
	bun.BaseModel `bun:"table:audit_runs,alias:ar"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	RanAt           time.Time `bun:"ran_at,notnull" json:"ran_at"`
	TotalItems      int       `bun:"total_items" json:"total_items"`
	TotalDocumented int       `bun:"total_documented" json:"total_documented"`
	OverallCoverage float64   `bun:"overall_coverage" json:"overall_coverage"`
	Report          *Report   `bun:"report,type:jsonb" json:"report,omitempty"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
