package jobs

import (
	"context"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/metrics"
	"github.com/Champ-Deep/LakeStream/internal/store"
)

// DefaultRetentionDays is how long a terminal job row survives before
// the retention sweep deletes it, grounded on the teacher's job-TTL
// cleanup but sized for this engine's two job tables rather than its
// four.
const DefaultRetentionDays = 30

// RetentionStats captures how many rows the sweep removed, by table.
type RetentionStats struct {
	ScrapeJobsDeleted    int64
	DiscoveryJobsDeleted int64
}

// CleanupExpiredJobs deletes terminal scrape_jobs/discovery_jobs rows
// older than retentionDays, so the database does not grow unbounded.
func CleanupExpiredJobs(ctx context.Context, st *store.Store, retentionDays int) RetentionStats {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	var stats RetentionStats
	if n, err := st.DeleteExpiredScrapeJobs(ctx, cutoff); err == nil {
		stats.ScrapeJobsDeleted = n
		metrics.RecordRetentionDeleted("scrape_jobs", n)
	}
	if n, err := st.DeleteExpiredDiscoveryJobs(ctx, cutoff); err == nil {
		stats.DiscoveryJobsDeleted = n
		metrics.RecordRetentionDeleted("discovery_jobs", n)
	}
	return stats
}
