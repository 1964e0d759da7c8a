// Package store persists the entities from spec §6's persistence
// contract directly against database/sql + the pgx/v5 stdlib driver.
// The teacher's internal/store/store.go wraps a sqlc-generated internal/db
// package that has no equivalent in this module, so queries here are
// hand-written SQL in the teacher's Store-wraps-*sql.DB shape.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Champ-Deep/LakeStream/internal/model"
)

// Store wraps a shared *sql.DB connection pool.
type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Open opens a pgx stdlib connection pool for dsn.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// CreateScrapeJob inserts a new job row in PENDING status.
func (s *Store) CreateScrapeJob(ctx context.Context, job model.ScrapeJob) error {
	dataTypes := make([]string, len(job.DataTypes))
	for i, dt := range job.DataTypes {
		dataTypes[i] = string(dt)
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO scrape_jobs (id, domain, template_id, status, max_pages, priority, data_types, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		job.ID, job.Domain, job.TemplateID, job.Status, job.MaxPages, job.Priority, dataTypes)
	return err
}

// UpdateScrapeJobStatus transitions a job's status, optionally recording
// strategy/error/cost/duration/pages and a completion timestamp.
func (s *Store) UpdateScrapeJobStatus(ctx context.Context, jobID, status string, strategyUsed model.Tier, errMsg string, costUSD float64, durationMs int64, pagesScraped int, completed bool) error {
	var completedAt any
	if completed {
		completedAt = time.Now()
	}
	_, err := s.DB.ExecContext(ctx, `
		UPDATE scrape_jobs
		SET status = $2, strategy_used = $3, error_message = NULLIF($4, ''),
		    cost_usd = $5, duration_ms = $6, pages_scraped = $7,
		    completed_at = COALESCE($8, completed_at)
		WHERE id = $1`,
		jobID, status, string(strategyUsed), errMsg, costUSD, durationMs, pagesScraped, completedAt)
	return err
}

// GetScrapeJob loads a job row by id, for the runner to hydrate a
// dequeued payload before handing it to the orchestrator.
func (s *Store) GetScrapeJob(ctx context.Context, jobID string) (*model.ScrapeJob, error) {
	var job model.ScrapeJob
	var dataTypes []string
	var strategy sql.NullString
	var errMsg sql.NullString
	var completedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, domain, template_id, status, max_pages, priority, data_types,
		       strategy_used, error_message, cost_usd, duration_ms, pages_scraped, created_at, completed_at
		FROM scrape_jobs WHERE id = $1`, jobID).
		Scan(&job.ID, &job.Domain, &job.TemplateID, &job.Status, &job.MaxPages, &job.Priority, &dataTypes,
			&strategy, &errMsg, &job.CostUSD, &job.DurationMs, &job.PagesScraped, &job.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	job.StrategyUsed = model.Tier(strategy.String)
	job.ErrorMessage = errMsg.String
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	for _, dt := range dataTypes {
		job.DataTypes = append(job.DataTypes, model.DataType(dt))
	}
	return &job, nil
}

// GetDiscoveryJob loads a discovery job row by id.
func (s *Store) GetDiscoveryJob(ctx context.Context, discoveryID string) (*model.DiscoveryJob, error) {
	var job model.DiscoveryJob
	var dataTypes []string
	var completedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, query, search_pages, results_per_page, data_types, template_id,
		       max_pages_per_domain, priority, status, domains_found, domains_skipped, cost_usd, created_at, completed_at
		FROM discovery_jobs WHERE id = $1`, discoveryID).
		Scan(&job.ID, &job.Query, &job.SearchPages, &job.ResultsPerPage, &dataTypes, &job.TemplateID,
			&job.MaxPagesPerDomain, &job.Priority, &job.Status, &job.DomainsFound, &job.DomainsSkipped, &job.CostUSD, &job.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	for _, dt := range dataTypes {
		job.DataTypes = append(job.DataTypes, model.DataType(dt))
	}
	return &job, nil
}

// BatchInsertScrapedData inserts records preserving insertion order,
// satisfying worker.ResultStore and §5's ordering guarantee.
func (s *Store) BatchInsertScrapedData(ctx context.Context, records []model.ScrapedData) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scraped_data (id, job_id, domain, data_type, url, title, published_date, metadata, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range records {
		metadata, err := json.Marshal(r.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata for %s: %w", r.URL, err)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.JobID, r.Domain, string(r.DataType), r.URL, r.Title, r.PublishedDate, metadata, r.ScrapedAt); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// UpsertDomainMetadata applies a server-side upsert with field-by-field
// COALESCE merge semantics and a server-side now(); block_count is
// incremented, not overwritten, per §5's concurrent-update requirement.
func (s *Store) UpsertDomainMetadata(ctx context.Context, domain string, strategy model.Tier, blocked bool, successRate, costDelta float64) error {
	blockIncrement := 0
	if blocked {
		blockIncrement = 1
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO domain_metadata (domain, last_successful_strategy, block_count, last_scraped_at, success_rate, avg_cost_usd, updated_at)
		VALUES ($1, $2, $3, now(), $4, $5, now())
		ON CONFLICT (domain) DO UPDATE SET
			last_successful_strategy = COALESCE(EXCLUDED.last_successful_strategy, domain_metadata.last_successful_strategy),
			block_count = domain_metadata.block_count + $3,
			last_scraped_at = now(),
			success_rate = COALESCE($4, domain_metadata.success_rate),
			avg_cost_usd = (domain_metadata.avg_cost_usd + $5) / 2,
			updated_at = now()`,
		domain, string(strategy), blockIncrement, successRate, costDelta)
	return err
}

// GetDomainMetadata reads the learned strategy for domain, if any.
func (s *Store) GetDomainMetadata(ctx context.Context, domain string) (*model.DomainMetadata, error) {
	var m model.DomainMetadata
	var strategy sql.NullString
	var lastScraped sql.NullTime
	err := s.DB.QueryRowContext(ctx, `
		SELECT domain, last_successful_strategy, block_count, last_scraped_at, success_rate, avg_cost_usd, notes, updated_at
		FROM domain_metadata WHERE domain = $1`, domain).
		Scan(&m.Domain, &strategy, &m.BlockCount, &lastScraped, &m.SuccessRate, &m.AvgCostUSD, &m.Notes, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.LastSuccessfulStrategy = model.Tier(strategy.String)
	if lastScraped.Valid {
		m.LastScrapedAt = &lastScraped.Time
	}
	return &m, nil
}

// ListDueTrackedDomains returns active tracked domains whose
// next_scrape_at has elapsed, per §4.12's hourly scheduler tick.
func (s *Store) ListDueTrackedDomains(ctx context.Context) ([]model.TrackedDomain, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT domain, data_types, scrape_frequency, max_pages, template_id, webhook_url, is_active, last_auto_scraped_at, next_scrape_at, created_at, updated_at
		FROM tracked_domains WHERE is_active AND next_scrape_at <= now()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrackedDomain
	for rows.Next() {
		var td model.TrackedDomain
		var dataTypes []string
		var lastAuto sql.NullTime
		var webhook sql.NullString
		if err := rows.Scan(&td.Domain, &dataTypes, &td.Frequency, &td.MaxPages, &td.TemplateID, &webhook, &td.Active, &lastAuto, &td.NextScrapeAt, &td.CreatedAt, &td.UpdatedAt); err != nil {
			return nil, err
		}
		td.WebhookURL = webhook.String
		if lastAuto.Valid {
			td.LastAutoScrapedAt = &lastAuto.Time
		}
		for _, dt := range dataTypes {
			td.DataTypes = append(td.DataTypes, model.DataType(dt))
		}
		out = append(out, td)
	}
	return out, rows.Err()
}

// GetTrackedDomain fetches a single tracked domain's row, used by the
// orchestrator to decide whether a completed job's results should be
// pushed to a webhook. Returns (nil, nil) when the domain isn't tracked.
func (s *Store) GetTrackedDomain(ctx context.Context, domain string) (*model.TrackedDomain, error) {
	var td model.TrackedDomain
	var dataTypes []string
	var lastAuto sql.NullTime
	var webhook sql.NullString
	err := s.DB.QueryRowContext(ctx, `
		SELECT domain, data_types, scrape_frequency, max_pages, template_id, webhook_url, is_active, last_auto_scraped_at, next_scrape_at, created_at, updated_at
		FROM tracked_domains WHERE domain = $1`, domain).
		Scan(&td.Domain, &dataTypes, &td.Frequency, &td.MaxPages, &td.TemplateID, &webhook, &td.Active, &lastAuto, &td.NextScrapeAt, &td.CreatedAt, &td.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	td.WebhookURL = webhook.String
	if lastAuto.Valid {
		td.LastAutoScrapedAt = &lastAuto.Time
	}
	for _, dt := range dataTypes {
		td.DataTypes = append(td.DataTypes, model.DataType(dt))
	}
	return &td, nil
}

// AdvanceTrackedDomain sets last_auto_scraped_at = now(), next_scrape_at
// = now() + delta(frequency), after enqueuing a synthesized job.
func (s *Store) AdvanceTrackedDomain(ctx context.Context, domain string, delta time.Duration) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE tracked_domains
		SET last_auto_scraped_at = now(), next_scrape_at = now() + $2::interval
		WHERE domain = $1`, domain, delta.String())
	return err
}

// CreateDiscoveryJob inserts a new discovery job in "searching" status.
func (s *Store) CreateDiscoveryJob(ctx context.Context, job model.DiscoveryJob) error {
	dataTypes := make([]string, len(job.DataTypes))
	for i, dt := range job.DataTypes {
		dataTypes[i] = string(dt)
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO discovery_jobs (id, query, search_pages, results_per_page, data_types, template_id, max_pages_per_domain, priority, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		job.ID, job.Query, job.SearchPages, job.ResultsPerPage, dataTypes, job.TemplateID, job.MaxPagesPerDomain, job.Priority, job.Status)
	return err
}

// UpdateDiscoveryJobStatus transitions a discovery job and records its
// domain counters.
func (s *Store) UpdateDiscoveryJobStatus(ctx context.Context, jobID string, status model.DiscoveryStatus, domainsFound, domainsSkipped int, costUSD float64, completed bool) error {
	var completedAt any
	if completed {
		completedAt = time.Now()
	}
	_, err := s.DB.ExecContext(ctx, `
		UPDATE discovery_jobs
		SET status = $2, domains_found = $3, domains_skipped = $4, cost_usd = $5,
		    completed_at = COALESCE($6, completed_at)
		WHERE id = $1`, jobID, status, domainsFound, domainsSkipped, costUSD, completedAt)
	return err
}

// InsertDiscoveryJobDomain records one unique domain surfaced by a
// discovery run, either scheduled for a child scrape job or skipped.
func (s *Store) InsertDiscoveryJobDomain(ctx context.Context, d model.DiscoveryJobDomain) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO discovery_job_domains (id, discovery_job_id, domain, source_url, title, snippet, score, status, skip_reason, scrape_job_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`,
		d.ID, d.DiscoveryJobID, d.Domain, d.SourceURL, d.Title, d.Snippet, d.Score, d.Status, d.SkipReason, d.ScrapeJobID)
	return err
}

// ListDueTrackedSearches returns active tracked searches due to run,
// per §4.12's 15-minute scheduler tick.
func (s *Store) ListDueTrackedSearches(ctx context.Context) ([]model.TrackedSearch, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT query, search_pages, results_per_page, data_types, template_id, max_pages_per_domain, scrape_frequency, is_active, last_auto_run_at, next_run_at
		FROM tracked_searches WHERE is_active AND next_run_at <= now()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrackedSearch
	for rows.Next() {
		var ts model.TrackedSearch
		var dataTypes []string
		var lastRun sql.NullTime
		if err := rows.Scan(&ts.Query, &ts.SearchPages, &ts.ResultsPerPage, &dataTypes, &ts.TemplateID, &ts.MaxPagesPerDomain, &ts.Frequency, &ts.Active, &lastRun, &ts.NextRunAt); err != nil {
			return nil, err
		}
		if lastRun.Valid {
			ts.LastAutoRunAt = &lastRun.Time
		}
		for _, dt := range dataTypes {
			ts.DataTypes = append(ts.DataTypes, model.DataType(dt))
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// AdvanceTrackedSearch sets last_auto_run_at = now(), next_run_at = now() + delta.
func (s *Store) AdvanceTrackedSearch(ctx context.Context, query string, delta time.Duration) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE tracked_searches
		SET last_auto_run_at = now(), next_run_at = now() + $2::interval
		WHERE query = $1`, query, delta.String())
	return err
}

// RecentlyScrapedDomains returns the set of domains scraped within the
// last N days, for discovery's "recently scraped" skip-set.
func (s *Store) RecentlyScrapedDomains(ctx context.Context, withinDays int) (map[string]struct{}, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT domain FROM domain_metadata WHERE last_scraped_at >= now() - ($1 || ' days')::interval`, withinDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}
		out[domain] = struct{}{}
	}
	return out, rows.Err()
}

// DeleteExpiredScrapeJobs removes terminal (completed/failed) scrape
// jobs older than cutoff. scraped_data rows cascade via FK.
func (s *Store) DeleteExpiredScrapeJobs(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM scrape_jobs WHERE status IN ('completed', 'failed') AND completed_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpiredDiscoveryJobs removes terminal discovery jobs older than
// cutoff. discovery_job_domains rows cascade via FK.
func (s *Store) DeleteExpiredDiscoveryJobs(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM discovery_jobs WHERE status IN ('completed', 'failed') AND completed_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
