package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/discovery"
	"github.com/Champ-Deep/LakeStream/internal/orchestrator"
	"github.com/Champ-Deep/LakeStream/internal/queue"
	"github.com/Champ-Deep/LakeStream/internal/store"
)

// DefaultMaxConcurrentJobs bounds how many jobs a single worker process
// runs at once, per §5's scheduling model.
const DefaultMaxConcurrentJobs = 10

// DefaultJobTimeout is the per-job wall-clock budget; on expiry the job
// is marked FAILED with no cooperative mid-worker cancellation.
const DefaultJobTimeout = 300 * time.Second

// DefaultPollTimeout is how long a single BRPop call blocks waiting for
// the next queued payload before looping to check ctx.
const DefaultPollTimeout = 5 * time.Second

// Runner polls the queue and dispatches dequeued payloads to the
// orchestrator (scrape jobs) or discovery (discovery jobs), bounding
// concurrency with a semaphore.
type Runner struct {
	Store        *store.Store
	Queue        *queue.Queue
	Orchestrator *orchestrator.Orchestrator
	Discovery    *discovery.Runner
	Log          *slog.Logger

	MaxConcurrent int
	JobTimeout    time.Duration

	sem chan struct{}
}

func NewRunner(st *store.Store, q *queue.Queue, orch *orchestrator.Orchestrator, disc *discovery.Runner, log *slog.Logger, maxConcurrent int, jobTimeout time.Duration) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentJobs
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	return &Runner{
		Store: st, Queue: q, Orchestrator: orch, Discovery: disc, Log: log,
		MaxConcurrent: maxConcurrent, JobTimeout: jobTimeout,
		sem: make(chan struct{}, maxConcurrent),
	}
}

// Run polls both queues until ctx is cancelled. It never returns an error
// for individual job failures — those are terminal states on the job row
// itself — only propagating ctx.Err() on shutdown.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.pollOnce(ctx)
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	scrapePayload, ok, err := r.Queue.DequeueScrapeJob(ctx, DefaultPollTimeout)
	if err != nil {
		if ctx.Err() == nil {
			r.Log.Error("dequeue_scrape_job_failed", "error", err)
		}
		return
	}
	if ok {
		r.dispatchScrape(ctx, scrapePayload.JobID)
		return
	}

	discoveryPayload, ok, err := r.Queue.DequeueDiscoveryJob(ctx, DefaultPollTimeout)
	if err != nil {
		if ctx.Err() == nil {
			r.Log.Error("dequeue_discovery_job_failed", "error", err)
		}
		return
	}
	if ok {
		r.dispatchDiscovery(ctx, discoveryPayload.DiscoveryID)
	}
}

func (r *Runner) dispatchScrape(ctx context.Context, jobID string) {
	r.sem <- struct{}{}
	go func() {
		defer func() { <-r.sem }()

		jobCtx, cancel := context.WithTimeout(ctx, r.JobTimeout)
		defer cancel()

		job, err := r.Store.GetScrapeJob(jobCtx, jobID)
		if err != nil || job == nil {
			r.Log.Error("load_scrape_job_failed", "job_id", jobID, "error", err)
			return
		}
		if err := r.Orchestrator.Run(jobCtx, job); err != nil {
			r.Log.Error("orchestrator_run_failed", "job_id", jobID, "error", err)
		}
	}()
}

func (r *Runner) dispatchDiscovery(ctx context.Context, discoveryID string) {
	r.sem <- struct{}{}
	go func() {
		defer func() { <-r.sem }()

		jobCtx, cancel := context.WithTimeout(ctx, r.JobTimeout)
		defer cancel()

		job, err := r.Store.GetDiscoveryJob(jobCtx, discoveryID)
		if err != nil || job == nil {
			r.Log.Error("load_discovery_job_failed", "discovery_id", discoveryID, "error", err)
			return
		}
		if err := r.Discovery.Run(jobCtx, job); err != nil {
			r.Log.Error("discovery_run_failed", "discovery_id", discoveryID, "error", err)
		}
	}()
}
