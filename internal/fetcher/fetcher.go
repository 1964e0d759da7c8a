// Package fetcher implements the fetcher trio (tier-1 plain HTTP, tier-2
// stealth headless, tier-3 headless+proxy) behind a single Fetcher
// contract, plus the block/captcha detector shared by all three.
package fetcher

import (
	"context"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/model"
)

// Options controls a single fetch call.
type Options struct {
	Timeout time.Duration
	Headers map[string]string
}

// Fetcher is the single operation every tier implements: given a URL and
// options, return a FetchResult. Implementations never return an error for
// network failures — those are translated into a blocked FetchResult per
// §4.1.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) *model.FetchResult
}

// Costs are the fixed per-tier costs in USD, from §4.1 / configuration.
type Costs struct {
	BasicHTTP       float64
	HeadlessBrowser float64
	HeadlessProxy   float64
}

// DefaultCosts matches the literal values in spec §4.1.
var DefaultCosts = Costs{BasicHTTP: 0.0001, HeadlessBrowser: 0.002, HeadlessProxy: 0.004}

func (c Costs) forTier(t model.Tier) float64 {
	switch t {
	case model.TierBasicHTTP:
		return c.BasicHTTP
	case model.TierHeadlessBrowser:
		return c.HeadlessBrowser
	case model.TierHeadlessProxy:
		return c.HeadlessProxy
	default:
		return 0
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
