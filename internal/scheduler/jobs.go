package scheduler

// Job types drained by the maintenance worker.
const (
	JobTypeAuditRun    = "refdocs.audit.run"
	JobTypeReviewSweep = "refdocs.review.sweep"
	JobTypeSiteRebuild = "refdocs.site.rebuild"
)

// Maintenance jobs are singletons: enqueueing with the same key replaces any
// pending run, so a reschedule never piles up duplicates.

func AuditRunJobKey() string { return "audit:run" }

func ReviewSweepJobKey() string { return "review:sweep" }

func SiteRebuildJobKey() string { return "site:rebuild" }
