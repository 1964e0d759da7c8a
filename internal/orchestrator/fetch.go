package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/costtracker"
	"github.com/Champ-Deep/LakeStream/internal/escalation"
	"github.com/Champ-Deep/LakeStream/internal/fetcher"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/ratelimit"
	"github.com/Champ-Deep/LakeStream/internal/store"
	"github.com/Champ-Deep/LakeStream/internal/urlutil"
)

// escalatingFetcher implements worker.PageFetcher, performing §4.11's
// per-page escalation policy: fetch at the domain's learned tier,
// re-fetch at the next tier while the result is escalatable, up to the
// tier-3 cap, persisting each fetch's outcome into DomainMetadata.
// fetchTimeout is the per-call timeout given to every tier-chain fetch.
const fetchTimeout = 30 * time.Second

type escalatingFetcher struct {
	jobID      string
	fetchers   *fetcher.Factory
	limiter    *ratelimit.Limiter
	costs      *costtracker.Tracker
	store      *store.Store
	rateLimMs  int
	pagesMu    sync.Mutex
	pagesCount int
	highestMu  sync.Mutex
	highest    model.Tier
}

func newEscalatingFetcher(jobID string, fetchers *fetcher.Factory, limiter *ratelimit.Limiter, costs *costtracker.Tracker, st *store.Store, rateLimMs int) *escalatingFetcher {
	return &escalatingFetcher{jobID: jobID, fetchers: fetchers, limiter: limiter, costs: costs, store: st, rateLimMs: rateLimMs, highest: model.TierBasicHTTP}
}

func (f *escalatingFetcher) PagesFetched() int {
	f.pagesMu.Lock()
	defer f.pagesMu.Unlock()
	return f.pagesCount
}

// HighestTierUsed reports the most expensive tier this fetcher reached
// across every page fetched for the job, used as ScrapeJob.StrategyUsed.
func (f *escalatingFetcher) HighestTierUsed() model.Tier {
	f.highestMu.Lock()
	defer f.highestMu.Unlock()
	return f.highest
}

func (f *escalatingFetcher) noteTier(t model.Tier) {
	rank := map[model.Tier]int{model.TierBasicHTTP: 0, model.TierHeadlessBrowser: 1, model.TierHeadlessProxy: 2}
	f.highestMu.Lock()
	defer f.highestMu.Unlock()
	if rank[t] > rank[f.highest] {
		f.highest = t
	}
}

func (f *escalatingFetcher) FetchPage(ctx context.Context, rawURL string) (*model.FetchResult, error) {
	domain := urlutil.RegistrableDomain(hostOf(rawURL))

	meta, _ := f.store.GetDomainMetadata(ctx, domain)
	if meta == nil {
		meta = &model.DomainMetadata{Domain: domain}
	}

	tier := escalation.InitialTier(meta)
	var result *model.FetchResult

	for {
		if err := f.limiter.Wait(ctx, domain, f.rateLimMs); err != nil {
			return nil, err
		}

		result = f.fetchers.For(tier).Fetch(ctx, rawURL, fetcher.Options{Timeout: fetchTimeout})
		f.costs.RecordCost(f.jobID, domain, result.CostUSD)
		f.noteTier(tier)
		f.pagesMu.Lock()
		f.pagesCount++
		f.pagesMu.Unlock()

		if !escalation.ShouldEscalate(result) {
			break
		}
		next := escalation.NextTier(tier)
		if next == "" {
			break // tier-3 exhausted; terminal failure
		}
		escalation.RecordOutcome(meta, tier, false)
		_ = f.store.UpsertDomainMetadata(ctx, domain, meta.LastSuccessfulStrategy, true, 0.0, result.CostUSD)
		tier = next
	}

	success := !escalation.ShouldEscalate(result)
	escalation.RecordOutcome(meta, tier, success)
	successRate := 0.0
	if success {
		successRate = 1.0
	}
	_ = f.store.UpsertDomainMetadata(ctx, domain, meta.LastSuccessfulStrategy, !success, successRate, result.CostUSD)

	return result, nil
}

func hostOf(rawURL string) string {
	// A minimal, allocation-light host extraction good enough for the
	// rate limiter and DomainMetadata keys; malformed URLs key as "".
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
