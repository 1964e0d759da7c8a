package fetcher

import "github.com/Champ-Deep/LakeStream/internal/model"

// Factory maps a tier enum to the corresponding Fetcher implementation.
type Factory struct {
	http     *HTTPFetcher
	headless *HeadlessFetcher // Tier-2, no proxy
	proxy    *HeadlessFetcher // Tier-3, with proxy (or degraded to Tier-2 behavior)
}

// NewFactory builds the fetcher trio from configuration.
func NewFactory(userAgent, proxyURL string, costs Costs) *Factory {
	return &Factory{
		http:     NewHTTPFetcher(userAgent, costs),
		headless: NewHeadlessFetcher("", costs),
		proxy:    &HeadlessFetcher{ProxyURL: proxyURL, Costs: costs, tier3: true},
	}
}

// For returns the Fetcher implementation for a tier.
func (f *Factory) For(tier model.Tier) Fetcher {
	switch tier {
	case model.TierHeadlessBrowser:
		return f.headless
	case model.TierHeadlessProxy:
		return f.proxy
	default:
		return f.http
	}
}
