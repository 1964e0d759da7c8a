// Package discovery implements §4.12's search fan-out: a query surfaces a
// set of candidate domains, deduped to the highest-scored hit per
// registrable domain, filtered against domains scraped recently, and
// turned into one child ScrapeJob per survivor.
package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Champ-Deep/LakeStream/internal/jobs"
	"github.com/Champ-Deep/LakeStream/internal/metrics"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/queue"
	"github.com/Champ-Deep/LakeStream/internal/store"
	"github.com/Champ-Deep/LakeStream/internal/urlutil"
	"github.com/google/uuid"
)

// SearchProvider is the external search collaborator discovery fans out
// to. Its concrete implementation (a third-party search API client) is
// outside this module's scope; discovery only depends on this shape.
type SearchProvider interface {
	Search(ctx context.Context, query string, page, resultsPerPage int) ([]model.SearchResult, error)
}

// RecentlyScrapedWindowDays is how far back "recently scraped" looks when
// deciding whether a discovered domain should be skipped.
const RecentlyScrapedWindowDays = 7

type Runner struct {
	Store       *store.Store
	Queue       *queue.Queue
	Search      SearchProvider
	Log         *slog.Logger
	MaxPerQuery int
}

func NewRunner(st *store.Store, q *queue.Queue, search SearchProvider, log *slog.Logger, maxPerQuery int) *Runner {
	if maxPerQuery <= 0 {
		maxPerQuery = 20
	}
	return &Runner{Store: st, Queue: q, Search: search, Log: log, MaxPerQuery: maxPerQuery}
}

// Run executes one DiscoveryJob: search, dedupe, skip-filter, fan out.
func (r *Runner) Run(ctx context.Context, job *model.DiscoveryJob) error {
	log := r.Log.With("discovery_id", job.ID, "query", job.Query)

	hits, err := r.collect(ctx, job)
	if err != nil {
		_ = r.Store.UpdateDiscoveryJobStatus(ctx, job.ID, model.DiscoveryStatusFailed, 0, 0, 0, true)
		metrics.RecordDiscoveryJob(string(model.DiscoveryStatusFailed), 0, 0)
		return fmt.Errorf("search %q: %w", job.Query, err)
	}

	if err := r.Store.UpdateDiscoveryJobStatus(ctx, job.ID, model.DiscoveryStatusScraping, 0, 0, 0, false); err != nil {
		return fmt.Errorf("transition to scraping: %w", err)
	}

	best := collapseByDomain(hits)
	recent, err := r.Store.RecentlyScrapedDomains(ctx, RecentlyScrapedWindowDays)
	if err != nil {
		return fmt.Errorf("load recently-scraped domains: %w", err)
	}

	found, skipped := 0, 0
	eligible := 0
	for i, hit := range best {
		if i >= r.MaxPerQuery {
			break
		}
		domain := urlutil.RegistrableDomain(hostOf(hit.URL))

		djd := model.DiscoveryJobDomain{
			ID:             uuid.NewString(),
			DiscoveryJobID: job.ID,
			Domain:         domain,
			SourceURL:      hit.URL,
			Title:          hit.Title,
			Snippet:        hit.Snippet,
			Score:          hit.Score,
		}

		if _, seen := recent[domain]; seen {
			djd.Status = model.DiscoveryDomainSkipped
			djd.SkipReason = "recently scraped"
			skipped++
			if err := r.Store.InsertDiscoveryJobDomain(ctx, djd); err != nil {
				log.Warn("insert_discovery_domain_failed", "domain", domain, "error", err)
			}
			continue
		}

		scrapeJobID := uuid.NewString()
		djd.Status = model.DiscoveryDomainPending
		djd.ScrapeJobID = &scrapeJobID

		scrapeJob := model.ScrapeJob{
			ID:         scrapeJobID,
			Domain:     domain,
			TemplateID: job.TemplateID,
			Status:     string(jobs.StatusPending),
			DataTypes:  job.DataTypes,
			MaxPages:   job.MaxPagesPerDomain,
			Priority:   job.Priority,
		}
		if err := r.Store.CreateScrapeJob(ctx, scrapeJob); err != nil {
			log.Warn("create_child_scrape_job_failed", "domain", domain, "error", err)
			continue
		}
		if err := r.Queue.EnqueueScrapeJob(ctx, queue.ScrapeJobPayload{
			JobID:      scrapeJob.ID,
			Domain:     scrapeJob.Domain,
			TemplateID: scrapeJob.TemplateID,
			MaxPages:   scrapeJob.MaxPages,
			DataTypes:  dataTypeStrings(scrapeJob.DataTypes),
		}); err != nil {
			log.Warn("enqueue_child_scrape_job_failed", "domain", domain, "error", err)
			continue
		}

		if err := r.Store.InsertDiscoveryJobDomain(ctx, djd); err != nil {
			log.Warn("insert_discovery_domain_failed", "domain", domain, "error", err)
		}
		found++
		eligible++
	}

	status := model.DiscoveryStatusScraping
	if eligible == 0 {
		status = model.DiscoveryStatusCompleted
	}
	if err := r.Store.UpdateDiscoveryJobStatus(ctx, job.ID, status, found, skipped, 0, status == model.DiscoveryStatusCompleted); err != nil {
		return fmt.Errorf("finalize discovery job: %w", err)
	}
	metrics.RecordDiscoveryJob(string(status), found, skipped)
	return nil
}

func (r *Runner) collect(ctx context.Context, job *model.DiscoveryJob) ([]model.SearchResult, error) {
	var all []model.SearchResult
	pages := job.SearchPages
	if pages <= 0 {
		pages = 1
	}
	for page := 1; page <= pages; page++ {
		hits, err := r.Search.Search(ctx, job.Query, page, job.ResultsPerPage)
		if err != nil {
			return nil, err
		}
		all = append(all, hits...)
	}
	return all, nil
}

// collapseByDomain keeps only the highest-scored hit per registrable
// domain, in descending score order.
func collapseByDomain(hits []model.SearchResult) []model.SearchResult {
	byDomain := make(map[string]model.SearchResult)
	for _, h := range hits {
		domain := urlutil.RegistrableDomain(hostOf(h.URL))
		if domain == "" {
			continue
		}
		if existing, ok := byDomain[domain]; !ok || h.Score > existing.Score {
			byDomain[domain] = h
		}
	}
	out := make([]model.SearchResult, 0, len(byDomain))
	for _, h := range byDomain {
		out = append(out, h)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func dataTypeStrings(dts []model.DataType) []string {
	out := make([]string, len(dts))
	for i, dt := range dts {
		out[i] = string(dt)
	}
	return out
}

func hostOf(rawURL string) string {
	for i := 0; i < len(rawURL); i++ {
		if rawURL[i] == '/' && i+1 < len(rawURL) && rawURL[i+1] == '/' {
			rest := rawURL[i+2:]
			for j := 0; j < len(rest); j++ {
				if rest[j] == '/' || rest[j] == '?' || rest[j] == '#' {
					return rest[:j]
				}
			}
			return rest
		}
	}
	return ""
}
