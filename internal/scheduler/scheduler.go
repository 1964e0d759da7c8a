// Package scheduler runs the periodic ticks from §4.12: sweeping due
// TrackedDomain/TrackedSearch rows and enqueuing the jobs they imply.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/jobs"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/queue"
	"github.com/Champ-Deep/LakeStream/internal/store"
	"github.com/google/uuid"
)

const (
	// TrackedDomainTick is the default period for sweeping due tracked
	// domains (§4.12: "default hourly").
	TrackedDomainTick = time.Hour
	// TrackedSearchTick is the default period for sweeping due tracked
	// searches (§4.12: "default every 15 minutes").
	TrackedSearchTick = 15 * time.Minute
	// RetentionTick is how often the job-retention sweep runs.
	RetentionTick = 24 * time.Hour
)

type Scheduler struct {
	Store         *store.Store
	Queue         *queue.Queue
	Log           *slog.Logger
	RetentionDays int
}

func New(st *store.Store, q *queue.Queue, log *slog.Logger, retentionDays int) *Scheduler {
	return &Scheduler{Store: st, Queue: q, Log: log, RetentionDays: retentionDays}
}

// Run blocks until ctx is cancelled, driving three independent tickers.
func (s *Scheduler) Run(ctx context.Context) {
	domainTicker := time.NewTicker(TrackedDomainTick)
	searchTicker := time.NewTicker(TrackedSearchTick)
	retentionTicker := time.NewTicker(RetentionTick)
	defer domainTicker.Stop()
	defer searchTicker.Stop()
	defer retentionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-domainTicker.C:
			s.sweepTrackedDomains(ctx)
		case <-searchTicker.C:
			s.sweepTrackedSearches(ctx)
		case <-retentionTicker.C:
			jobs.CleanupExpiredJobs(ctx, s.Store, s.RetentionDays)
		}
	}
}

func (s *Scheduler) sweepTrackedDomains(ctx context.Context) {
	due, err := s.Store.ListDueTrackedDomains(ctx)
	if err != nil {
		s.Log.Error("list_due_tracked_domains_failed", "error", err)
		return
	}
	for _, td := range due {
		jobID := uuid.NewString()
		job := model.ScrapeJob{
			ID:         jobID,
			Domain:     td.Domain,
			TemplateID: td.TemplateID,
			Status:     string(jobs.StatusPending),
			DataTypes:  td.DataTypes,
			MaxPages:   td.MaxPages,
			Priority:   5,
		}
		if err := s.Store.CreateScrapeJob(ctx, job); err != nil {
			s.Log.Error("create_scheduled_scrape_job_failed", "domain", td.Domain, "error", err)
			continue
		}
		if err := s.Queue.EnqueueScrapeJob(ctx, queue.ScrapeJobPayload{
			JobID:      job.ID,
			Domain:     job.Domain,
			TemplateID: job.TemplateID,
			MaxPages:   job.MaxPages,
			DataTypes:  dataTypeStrings(job.DataTypes),
		}); err != nil {
			s.Log.Error("enqueue_scheduled_scrape_job_failed", "domain", td.Domain, "error", err)
			continue
		}
		if err := s.Store.AdvanceTrackedDomain(ctx, td.Domain, model.FrequencyDelta(td.Frequency)); err != nil {
			s.Log.Error("advance_tracked_domain_failed", "domain", td.Domain, "error", err)
		}
	}
}

func (s *Scheduler) sweepTrackedSearches(ctx context.Context) {
	due, err := s.Store.ListDueTrackedSearches(ctx)
	if err != nil {
		s.Log.Error("list_due_tracked_searches_failed", "error", err)
		return
	}
	for _, ts := range due {
		discoveryID := uuid.NewString()
		job := model.DiscoveryJob{
			ID:                discoveryID,
			Query:             ts.Query,
			SearchPages:       ts.SearchPages,
			ResultsPerPage:    ts.ResultsPerPage,
			DataTypes:         ts.DataTypes,
			TemplateID:        ts.TemplateID,
			MaxPagesPerDomain: ts.MaxPagesPerDomain,
			Priority:          5,
			Status:            model.DiscoveryStatusSearching,
		}
		if err := s.Store.CreateDiscoveryJob(ctx, job); err != nil {
			s.Log.Error("create_scheduled_discovery_job_failed", "query", ts.Query, "error", err)
			continue
		}
		if err := s.Queue.EnqueueDiscoveryJob(ctx, queue.DiscoveryJobPayload{DiscoveryID: discoveryID}); err != nil {
			s.Log.Error("enqueue_scheduled_discovery_job_failed", "query", ts.Query, "error", err)
			continue
		}
		if err := s.Store.AdvanceTrackedSearch(ctx, ts.Query, model.FrequencyDelta(ts.Frequency)); err != nil {
			s.Log.Error("advance_tracked_search_failed", "query", ts.Query, "error", err)
		}
	}
}

func dataTypeStrings(dts []model.DataType) []string {
	out := make([]string, len(dts))
	for i, dt := range dts {
		out[i] = string(dt)
	}
	return out
}
