package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/model"
)

// HTTPFetcher is the Tier-1 transport: a direct HTTP client with a
// browser-like user-agent and automatic redirect following, grounded on
// the teacher's HTTPScraper.
type HTTPFetcher struct {
	UserAgent string
	Costs     Costs
}

// NewHTTPFetcher constructs a Tier-1 fetcher.
func NewHTTPFetcher(userAgent string, costs Costs) *HTTPFetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; LakeStreamBot/1.0; +https://example.invalid/bot)"
	}
	return &HTTPFetcher{UserAgent: userAgent, Costs: costs}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, target string, opts Options) *model.FetchResult {
	start := time.Now()
	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return f.networkFailure(target, start)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return f.networkFailure(target, start)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return f.networkFailure(target, start)
	}
	body := string(bodyBytes)

	return &model.FetchResult{
		URL:        target,
		Status:     resp.StatusCode,
		Body:       body,
		Headers:    map[string][]string(resp.Header),
		TierUsed:   model.TierBasicHTTP,
		CostUSD:    f.Costs.forTier(model.TierBasicHTTP),
		DurationMs: elapsedMs(start),
		Blocked:    IsBlocked(resp.StatusCode, body),
		Captcha:    IsCaptcha(body),
	}
}

// networkFailure translates any transport-level error into the uniform
// blocked FetchResult required by §4.1: never raise, always return status=0.
func (f *HTTPFetcher) networkFailure(target string, start time.Time) *model.FetchResult {
	return &model.FetchResult{
		URL:        target,
		Status:     0,
		Body:       "",
		TierUsed:   model.TierBasicHTTP,
		CostUSD:    f.Costs.forTier(model.TierBasicHTTP),
		DurationMs: elapsedMs(start),
		Blocked:    true,
	}
}
