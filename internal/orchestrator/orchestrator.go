// Package orchestrator drives a single ScrapeJob through §4.11's state
// machine: map the domain, detect its template, run the requested data-type
// workers, persist results, and export via webhook.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/costtracker"
	"github.com/Champ-Deep/LakeStream/internal/fetcher"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/jobs"
	"github.com/Champ-Deep/LakeStream/internal/mapper"
	"github.com/Champ-Deep/LakeStream/internal/metrics"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/ratelimit"
	"github.com/Champ-Deep/LakeStream/internal/store"
	"github.com/Champ-Deep/LakeStream/internal/templates"
	"github.com/Champ-Deep/LakeStream/internal/webhook"
	"github.com/Champ-Deep/LakeStream/internal/worker"
)

// Config carries the shared, long-lived collaborators an Orchestrator
// needs to run jobs: one instance is built at startup and reused across
// every job the worker process handles.
type Config struct {
	Store      *store.Store
	Fetchers   *fetcher.Factory
	Limiter    *ratelimit.Limiter
	Costs      *costtracker.Tracker
	Webhooks   *webhook.Exporter
	Templates  *templates.Registry
	Log        *slog.Logger
	RateLimMs  int
	MaxPages   int
	MapperOpts mapper.Options
}

type Orchestrator struct {
	cfg Config
}

func New(cfg Config) *Orchestrator {
	if cfg.RateLimMs <= 0 {
		cfg.RateLimMs = ratelimit.DefaultIntervalMs
	}
	return &Orchestrator{cfg: cfg}
}

// Run executes one ScrapeJob end to end, updating its persisted status at
// every transition per §4.11. It never returns an error to the caller for
// job-local failures — those are recorded on the job row itself — only for
// failures to update the job's own status record.
func (o *Orchestrator) Run(ctx context.Context, job *model.ScrapeJob) error {
	start := time.Now()
	log := o.cfg.Log.With("job_id", job.ID, "domain", job.Domain)

	if err := o.cfg.Store.UpdateScrapeJobStatus(ctx, job.ID, string(jobs.StatusRunning), "", "", 0, 0, 0, false); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	records, strategyUsed, jobErrors, runErr, pagesFetched := o.execute(ctx, job, log)
	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err() // job timeout (or shutdown) is terminal
	}
	metrics.RecordPagesScraped(pagesFetched)

	duration := time.Since(start).Milliseconds()
	cost := o.cfg.Costs.JobCost(job.ID)
	o.cfg.Costs.ForgetJob(job.ID)

	status := jobs.StatusCompleted
	errMsg := ""
	if runErr != nil {
		status = jobs.StatusFailed
		errMsg = runErr.Error()
		log.Error("job_failed", "error", runErr)
	} else if len(jobErrors) > 0 {
		log.Warn("job_completed_with_worker_errors", "errors", jobErrors)
	}

	// The final status is written even when ctx has already expired.
	if err := o.cfg.Store.UpdateScrapeJobStatus(context.WithoutCancel(ctx), job.ID, string(status), strategyUsed, errMsg, cost, duration, len(records), true); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	metrics.RecordJobStatus(job.Domain, string(status), duration, cost)
	if strategyUsed != "" {
		metrics.RecordTierUsed(string(strategyUsed))
	}
	byType := make(map[string]int)
	for _, r := range records {
		byType[string(r.DataType)]++
	}
	for dt, n := range byType {
		metrics.RecordExtracted(dt, n)
	}

	if status == jobs.StatusCompleted && len(records) > 0 {
		o.exportIfTracked(ctx, job, records, log)
	}
	return nil
}

func (o *Orchestrator) exportIfTracked(ctx context.Context, job *model.ScrapeJob, records []model.ScrapedData, log *slog.Logger) {
	dom, err := o.cfg.Store.GetTrackedDomain(ctx, job.Domain)
	if err != nil || dom == nil || dom.WebhookURL == "" {
		return
	}
	ok := o.cfg.Webhooks.Send(ctx, dom.WebhookURL, "scrape_completed", job.ID, records)
	metrics.RecordWebhookDelivery(job.Domain, ok)
	if !ok {
		log.Warn("webhook_export_failed", "webhook_url", dom.WebhookURL)
	}
}

// execute runs the mapping + extraction pipeline and returns whatever
// records were produced even when some workers failed, so a partial
// result is never discarded.
func (o *Orchestrator) execute(ctx context.Context, job *model.ScrapeJob, log *slog.Logger) ([]model.ScrapedData, model.Tier, []string, error, int) {
	maxPages := job.MaxPages
	if maxPages <= 0 {
		maxPages = o.cfg.MaxPages
	}
	mapOpts := o.cfg.MapperOpts
	mapOpts.MaxPages = maxPages

	classified, err := mapper.Map(ctx, job.ID, job.Domain, o.cfg.Store, mapOpts)
	if err != nil {
		return nil, "", nil, fmt.Errorf("map domain: %w", err), 0
	}
	if len(classified) == 0 {
		return nil, "", nil, fmt.Errorf("no scrapeable URLs discovered for %s", job.Domain), 0
	}
	defaultConf := 0
	for _, c := range classified {
		if c.Confidence <= 0.2 {
			defaultConf++
		}
	}
	if defaultConf*2 > len(classified) {
		log.Debug("mostly_default_confidence_urls", "default_confidence", defaultConf, "classified", len(classified))
	}

	pf := newEscalatingFetcher(job.ID, o.cfg.Fetchers, o.cfg.Limiter, o.cfg.Costs, o.cfg.Store, o.cfg.RateLimMs)

	tpl, err := o.selectTemplate(ctx, job, classified, pf)
	if err != nil {
		return nil, "", nil, err, pf.PagesFetched()
	}

	byType := groupByDataType(classified)
	wantedTypes := job.DataTypes
	if len(wantedTypes) == 0 {
		wantedTypes = []model.DataType{model.DataTypeBlogURL, model.DataTypeArticle, model.DataTypeContact, model.DataTypeTechStack, model.DataTypeResource, model.DataTypePricing}
	}

	base := worker.Base{Domain: job.Domain, JobID: job.ID, Log: log, Template: tpl, Fetcher: pf, Store: o.cfg.Store}

	var all []model.ScrapedData
	var jobErrors []string
	var articleURLs []string

	for _, dt := range wantedTypes {
		urls := byType[dt]
		switch dt {
		case model.DataTypeBlogURL:
			bw := worker.NewBlogExtractor(base)
			recs, err := bw.Execute(ctx, homepageOr(urls, job.Domain))
			if err != nil {
				jobErrors = append(jobErrors, fmt.Sprintf("blog_url: %v", err))
				continue
			}
			all = append(all, recs...)
			articleURLs = bw.ArticleURLs()
		case model.DataTypeArticle:
			targets := urls
			if len(articleURLs) > 0 {
				targets = articleURLs
			}
			recs, err := worker.NewArticleParser(base).Execute(ctx, targets)
			if err != nil {
				jobErrors = append(jobErrors, fmt.Sprintf("article: %v", err))
				continue
			}
			all = append(all, recs...)
		case model.DataTypeContact:
			recs, err := worker.NewContactFinder(base).Execute(ctx, urls)
			if err != nil {
				jobErrors = append(jobErrors, fmt.Sprintf("contact: %v", err))
				continue
			}
			all = append(all, recs...)
		case model.DataTypeTechStack:
			recs, err := worker.NewTechDetector(base).Execute(ctx, homepageOr(urls, job.Domain))
			if err != nil {
				jobErrors = append(jobErrors, fmt.Sprintf("tech_stack: %v", err))
				continue
			}
			all = append(all, recs...)
		case model.DataTypeResource:
			recs, err := worker.NewResourceFinder(base).Execute(ctx, urls)
			if err != nil {
				jobErrors = append(jobErrors, fmt.Sprintf("resource: %v", err))
				continue
			}
			all = append(all, recs...)
		case model.DataTypePricing:
			recs, err := worker.NewPricingFinder(base).Execute(ctx, urls)
			if err != nil {
				jobErrors = append(jobErrors, fmt.Sprintf("pricing: %v", err))
				continue
			}
			all = append(all, recs...)
		}
	}

	// Every worker failure is caught into jobErrors above and never escapes
	// the per-worker try; an all-workers-failed outcome is still a completed
	// job (§4.11 step 3, §7) — only an error from outside the worker loop
	// (mapping, template selection) fails the job.
	return all, pf.HighestTierUsed(), jobErrors, nil, pf.PagesFetched()
}

// selectTemplate implements template selection: an explicit non-"auto" ID
// wins, otherwise the homepage is fetched once and run through detection.
func (o *Orchestrator) selectTemplate(ctx context.Context, job *model.ScrapeJob, classified []model.ClassifiedURL, pf *escalatingFetcher) (templates.Template, error) {
	if job.TemplateID != "" && job.TemplateID != "auto" {
		if tpl, ok := o.cfg.Templates.ByID(job.TemplateID); ok {
			return tpl, nil
		}
	}

	homepage := homepageURL(job.Domain)
	result, err := pf.FetchPage(ctx, homepage)
	if err != nil {
		return nil, fmt.Errorf("fetch homepage for template detection: %w", err)
	}
	base, _ := url.Parse(homepage)
	doc, err := htmlparse.Parse(result.Body, base)
	if err != nil {
		tpl, _ := o.cfg.Templates.ByID("generic")
		return tpl, nil
	}
	return o.cfg.Templates.Detect(doc, homepage), nil
}

func groupByDataType(classified []model.ClassifiedURL) map[model.DataType][]string {
	out := make(map[model.DataType][]string)
	for _, c := range classified {
		out[c.DataType] = append(out[c.DataType], c.URL)
	}
	return out
}

func homepageURL(domain string) string {
	return "https://" + domain + "/"
}

func homepageOr(urls []string, domain string) []string {
	if len(urls) > 0 {
		return urls
	}
	return []string{homepageURL(domain)}
}
