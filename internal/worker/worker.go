// Package worker implements the specialized per-data-type scrapers that
// make up a job's execution, grounded on spec §4.10 and
// original_source/src/workers/*.py.
package worker

import (
	"context"
	"log/slog"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/templates"
)

// PageFetcher is the escalating fetch function the job orchestrator
// constructs and injects into every worker. Escalation itself (tier
// selection, retry-on-block, DomainMetadata updates) lives in the
// orchestrator, not here — a worker only ever sees the final FetchResult.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*model.FetchResult, error)
}

// ResultStore is the subset of persistence a worker needs to flush
// records as it produces them.
type ResultStore interface {
	BatchInsertScrapedData(ctx context.Context, records []model.ScrapedData) (int, error)
}

// Base is the common shape every specialized worker embeds: domain,
// job id, a bound logger, the active template, and the collaborators
// used by fetch_page/export_results.
type Base struct {
	Domain   string
	JobID    string
	Log      *slog.Logger
	Template templates.Template
	Fetcher  PageFetcher
	Store    ResultStore
}

// Worker is the fixed capability every specialized worker implements.
type Worker interface {
	Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error)
}

// FetchPage invokes the configured fetcher for a single URL.
func (b *Base) FetchPage(ctx context.Context, url string) (*model.FetchResult, error) {
	return b.Fetcher.FetchPage(ctx, url)
}

// ExportResults batch-inserts records into persistence, in insertion
// order, per §5's ordering guarantee.
func (b *Base) ExportResults(ctx context.Context, records []model.ScrapedData) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	return b.Store.BatchInsertScrapedData(ctx, records)
}
