// Package model holds the entities shared across the scraping engine:
// jobs, scraped records, learned per-domain strategy, tracked
// domains/searches, and discovery runs.
package model

import "time"

// DataType is the semantic category of a ScrapedData record.
type DataType string

const (
	DataTypeBlogURL   DataType = "blog_url"
	DataTypeArticle   DataType = "article"
	DataTypeContact   DataType = "contact"
	DataTypeTechStack DataType = "tech_stack"
	DataTypeResource  DataType = "resource"
	DataTypePricing   DataType = "pricing"
)

// Tier names the three fetch strategies, in ascending order of cost.
type Tier string

const (
	TierBasicHTTP       Tier = "basic_http"
	TierHeadlessBrowser Tier = "headless_browser"
	TierHeadlessProxy   Tier = "headless_proxy"
)

// Bag is the semi-structured attribute bag carried by a ScrapedData row.
// Values are strings, numbers, booleans, or nested Bags/lists thereof.
type Bag map[string]any

// ScrapeJob is a single unit of scraping work against one domain.
type ScrapeJob struct {
	ID           string
	Domain       string
	TemplateID   string // "auto" defers to detection
	Status       string // see internal/jobs for the state machine
	DataTypes    []DataType
	MaxPages     int
	Priority     int
	StrategyUsed Tier
	PagesScraped int
	CostUSD      float64
	DurationMs   int64
	ErrorMessage string
	Errors       []string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// ScrapedData is one persisted extraction belonging exclusively to a job.
type ScrapedData struct {
	ID            string
	JobID         string
	Domain        string
	DataType      DataType
	URL           string
	Title         string
	PublishedDate *time.Time
	Metadata      Bag
	ScrapedAt     time.Time
}

// DomainMetadata is the engine's learned per-domain strategy. It is the
// only entity mutated by concurrent jobs and must always be updated via a
// server-side upsert (see internal/store).
type DomainMetadata struct {
	Domain                 string
	LastSuccessfulStrategy Tier
	BlockCount             int64
	LastScrapedAt          *time.Time
	SuccessRate            float64
	AvgCostUSD             float64
	Notes                  string
	UpdatedAt              time.Time
}

// ScrapeFrequency is how often a TrackedDomain or TrackedSearch recurs.
type ScrapeFrequency string

const (
	FrequencyDaily    ScrapeFrequency = "daily"
	FrequencyWeekly   ScrapeFrequency = "weekly"
	FrequencyBiweekly ScrapeFrequency = "biweekly"
	FrequencyMonthly  ScrapeFrequency = "monthly"
)

// FrequencyDelta returns the interval a frequency advances next_scrape_at by.
func FrequencyDelta(f ScrapeFrequency) time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyBiweekly:
		return 14 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// TrackedDomain is a domain scheduled for recurring scrapes.
type TrackedDomain struct {
	Domain            string
	DataTypes         []DataType
	Frequency         ScrapeFrequency
	MaxPages          int
	TemplateID        string
	WebhookURL        string
	Active            bool
	LastAutoScrapedAt *time.Time
	NextScrapeAt      time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TrackedSearch is a search query scheduled for recurring discovery runs.
type TrackedSearch struct {
	Query             string
	SearchPages       int
	ResultsPerPage    int
	DataTypes         []DataType
	TemplateID        string
	MaxPagesPerDomain int
	Frequency         ScrapeFrequency
	Active            bool
	LastAutoRunAt     *time.Time
	NextRunAt         time.Time
}

// DiscoveryStatus is the lifecycle of a DiscoveryJob.
type DiscoveryStatus string

const (
	DiscoveryStatusSearching DiscoveryStatus = "searching"
	DiscoveryStatusScraping  DiscoveryStatus = "scraping"
	DiscoveryStatusCompleted DiscoveryStatus = "completed"
	DiscoveryStatusFailed    DiscoveryStatus = "failed"
)

// DiscoveryJob fans a search query out into one scrape job per domain.
type DiscoveryJob struct {
	ID                string
	Query             string
	SearchPages       int
	ResultsPerPage    int
	DataTypes         []DataType
	TemplateID        string
	MaxPagesPerDomain int
	Priority          int
	Status            DiscoveryStatus
	DomainsFound      int
	DomainsSkipped    int
	SerializedResults []SearchResult
	CostUSD           float64
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

// SearchResult is a single hit returned by the external search function.
// The search provider itself is an opaque external collaborator; this is
// only the shape discovery consumes.
type SearchResult struct {
	URL     string
	Title   string
	Snippet string
	Score   float64
}

// DiscoveryDomainStatus is the per-domain outcome of a discovery run.
type DiscoveryDomainStatus string

const (
	DiscoveryDomainPending  DiscoveryDomainStatus = "pending"
	DiscoveryDomainScraping DiscoveryDomainStatus = "scraping"
	DiscoveryDomainDone     DiscoveryDomainStatus = "done"
	DiscoveryDomainSkipped  DiscoveryDomainStatus = "skipped"
	DiscoveryDomainFailed   DiscoveryDomainStatus = "failed"
)

// DiscoveryJobDomain is one unique domain discovered by a DiscoveryJob.
type DiscoveryJobDomain struct {
	ID             string
	DiscoveryJobID string
	Domain         string
	SourceURL      string
	Title          string
	Snippet        string
	Score          float64
	Status         DiscoveryDomainStatus
	SkipReason     string
	ScrapeJobID    *string
}

// FetchResult is the transient, non-persisted outcome of one fetch.
type FetchResult struct {
	URL        string
	Status     int
	Body       string
	Headers    map[string][]string
	TierUsed   Tier
	CostUSD    float64
	DurationMs int64
	Blocked    bool
	Captcha    bool
}

// ClassifiedURL is a URL mapped to a semantic data type with a confidence
// score produced by the domain mapper / URL classifier.
type ClassifiedURL struct {
	URL        string
	DataType   DataType
	Confidence float64
}
