// Package mapper discovers the URL set of a domain: sitemap.xml first,
// falling back to a bounded-concurrency BFS crawl, grounded on the
// teacher's internal/crawler/map.go.
package mapper

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	robotstxt "github.com/temoto/robotstxt"

	"github.com/Champ-Deep/LakeStream/internal/classifier"
	"github.com/Champ-Deep/LakeStream/internal/fetcher"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/urlutil"
)

// Store is the subset of persistence Map needs to stash one pending row
// per classified URL, for later correlation with the records a job's
// workers eventually produce.
type Store interface {
	BatchInsertScrapedData(ctx context.Context, records []model.ScrapedData) (int, error)
}

// Options controls a single domain-mapping run.
type Options struct {
	MaxPages      int
	WaveSize      int // bounded BFS concurrency per wave, default 10
	WaveDelay     time.Duration
	UserAgent     string
	FetchTimeout  time.Duration
	RespectRobots bool
}

func (o Options) withDefaults() Options {
	if o.WaveSize <= 0 {
		o.WaveSize = 10
	}
	if o.WaveDelay <= 0 {
		o.WaveDelay = 100 * time.Millisecond
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 30 * time.Second
	}
	return o
}

// Map discovers and classifies URLs for a domain per §4.5, then
// batch-inserts one pending scraped_data row per classified URL
// (title empty, metadata carrying the classification confidence) so
// later-stage records can be correlated against the full candidate set.
func Map(ctx context.Context, jobID, domain string, st Store, opts Options) ([]model.ClassifiedURL, error) {
	opts = opts.withDefaults()

	base := &url.URL{Scheme: "https", Host: domain}
	client := &http.Client{Timeout: opts.FetchTimeout}

	urls, err := sitemapURLs(ctx, client, base, opts.MaxPages)
	if err != nil || len(urls) == 0 {
		urls = bfsCrawl(ctx, client, base, opts)
	}

	urls = urlutil.Dedupe(urls)
	if len(urls) > opts.MaxPages {
		urls = urls[:opts.MaxPages]
	}

	out := make([]model.ClassifiedURL, 0, len(urls))
	pending := make([]model.ScrapedData, 0, len(urls))
	now := time.Now().UTC()
	for _, u := range urls {
		dt, conf := classifier.Classify(u)
		out = append(out, model.ClassifiedURL{URL: u, DataType: dt, Confidence: conf})
		pending = append(pending, model.ScrapedData{
			ID:        uuid.NewString(),
			JobID:     jobID,
			Domain:    domain,
			DataType:  dt,
			URL:       u,
			Metadata:  model.Bag{"confidence": conf},
			ScrapedAt: now,
		})
	}

	if st != nil && len(pending) > 0 {
		if _, err := st.BatchInsertScrapedData(ctx, pending); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// sitemapURLs attempts <base>/sitemap.xml per step 1 of §4.5. A non-200
// response or absence of <loc> entries signals the caller to fall back to
// BFS crawling — this is how Testable Property 9 (sitemap preference) is
// satisfied: the BFS path is simply never invoked when this succeeds.
func sitemapURLs(ctx context.Context, client *http.Client, base *url.URL, maxPages int) ([]string, error) {
	sitemapURL := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/sitemap.xml"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	type urlEntry struct {
		Loc string `xml:"loc"`
	}
	type urlSet struct {
		URLs []urlEntry `xml:"url"`
	}
	var us urlSet
	if err := xml.Unmarshal(body, &us); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(us.URLs))
	for _, entry := range us.URLs {
		if urlutil.IsScrapeWorthy(entry.Loc) {
			out = append(out, entry.Loc)
		}
		if len(out) >= maxPages {
			break
		}
	}
	return out, nil
}

// bfsCrawl is step 2 of §4.5: bounded-concurrency BFS from the root,
// discarding (never aborting on) blocked/captcha pages, with robots.txt
// consulted once per run (a supplemented feature, see SPEC_FULL.md).
func bfsCrawl(ctx context.Context, client *http.Client, base *url.URL, opts Options) []string {
	var robots *robotstxt.RobotsData
	if opts.RespectRobots {
		robots = fetchRobots(ctx, client, base, opts.UserAgent)
	}

	discovered := make(map[string]struct{})
	var discoveredMu sync.Mutex
	frontier := []string{base.String()}
	visited := map[string]struct{}{base.String(): {}}

	addDiscovered := func(u string) bool {
		discoveredMu.Lock()
		defer discoveredMu.Unlock()
		if len(discovered) >= opts.MaxPages {
			return false
		}
		discovered[u] = struct{}{}
		return true
	}

	for len(frontier) > 0 {
		discoveredMu.Lock()
		full := len(discovered) >= opts.MaxPages
		discoveredMu.Unlock()
		if full {
			break
		}

		wave := frontier
		if len(wave) > opts.WaveSize {
			wave = wave[:opts.WaveSize]
		}
		frontier = frontier[len(wave):]

		var wg sync.WaitGroup
		var nextMu sync.Mutex
		var next []string

		for _, pageURL := range wave {
			pageURL := pageURL
			wg.Add(1)
			go func() {
				defer wg.Done()
				links := fetchAndExtractLinks(ctx, client, pageURL)
				for _, link := range links {
					linkURL, err := url.Parse(link)
					if err != nil {
						continue
					}
					if !urlutil.SameRegistrableDomain(linkURL.Host, base.Host) {
						continue
					}
					if !urlutil.IsScrapeWorthy(link) {
						continue
					}
					if robots != nil {
						if grp := robots.FindGroup(opts.UserAgent); grp != nil && !grp.Test(linkURL.Path) {
							continue
						}
					}
					nextMu.Lock()
					if _, ok := visited[link]; !ok {
						visited[link] = struct{}{}
						next = append(next, link)
					}
					nextMu.Unlock()
					if !addDiscovered(link) {
						return
					}
				}
			}()
		}
		wg.Wait()

		frontier = append(frontier, next...)
		time.Sleep(opts.WaveDelay)
	}

	out := make([]string, 0, len(discovered))
	for u := range discovered {
		out = append(out, u)
	}
	return out
}

// fetchAndExtractLinks fetches a single page with Tier-1 semantics and
// returns its absolute out-links. A blocked/captcha/error page simply
// yields no out-links — it never aborts the crawl (§4.5 step 2).
func fetchAndExtractLinks(ctx context.Context, client *http.Client, pageURL string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	bodyStr := string(body)
	if fetcher.IsBlocked(resp.StatusCode, bodyStr) || fetcher.IsCaptcha(bodyStr) {
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := htmlparse.Parse(bodyStr, base)
	if err != nil {
		return nil
	}
	return doc.ExtractLinks([]string{"a[href]"})
}

func fetchRobots(ctx context.Context, client *http.Client, base *url.URL, userAgent string) *robotstxt.RobotsData {
	robotsURL := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/robots.txt"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data
}
