// Package metrics exposes in-memory counters for the ops surface's
// /metrics endpoint, grounded on the teacher's own hand-rolled
// Prometheus-text exporter rather than a client library — kept minimal
// and dependency-free because it serves a single internal endpoint.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	mu sync.RWMutex

	jobsTotal        = make(map[jobKey]int64)
	jobDurationMsSum = make(map[string]int64)
	jobCostUSDSum    = make(map[string]float64)
	pagesScrapedSum  int64

	tierUsedTotal = make(map[string]int64)

	recordsByType = make(map[string]int64)

	webhookDeliveries = make(map[webhookKey]int64)

	discoveryJobsTotal  = make(map[string]int64)
	domainsDiscovered   int64
	domainsSkippedTotal = make(map[string]int64)

	queueDepth = make(map[string]int64)

	retentionRowsDeleted = make(map[string]int64)
)

type jobKey struct {
	Domain string
	Status string
}

type webhookKey struct {
	Domain  string
	Success string
}

// RecordJobStatus counts a ScrapeJob reaching a terminal status and
// accumulates its duration/cost.
func RecordJobStatus(domain, status string, durationMs int64, costUSD float64) {
	mu.Lock()
	defer mu.Unlock()

	jobsTotal[jobKey{Domain: domain, Status: status}]++
	jobDurationMsSum[status] += durationMs
	jobCostUSDSum[status] += costUSD
}

// RecordPagesScraped adds to the running total of pages fetched across
// every job.
func RecordPagesScraped(n int) {
	if n <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	pagesScrapedSum += int64(n)
}

// RecordTierUsed increments the counter for a fetch tier having been
// used to successfully retrieve a page.
func RecordTierUsed(tier string) {
	mu.Lock()
	defer mu.Unlock()
	tierUsedTotal[tier]++
}

// RecordExtracted increments the counter of ScrapedData rows produced,
// keyed by data type.
func RecordExtracted(dataType string, count int) {
	if count <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	recordsByType[dataType] += int64(count)
}

// RecordWebhookDelivery counts a webhook export attempt's outcome.
func RecordWebhookDelivery(domain string, success bool) {
	mu.Lock()
	defer mu.Unlock()
	s := "false"
	if success {
		s = "true"
	}
	webhookDeliveries[webhookKey{Domain: domain, Success: s}]++
}

// RecordDiscoveryJob counts a DiscoveryJob by the status its run left it
// in (failed, completed, or scraping while child jobs run) and its domain
// yield.
func RecordDiscoveryJob(status string, found, skipped int) {
	mu.Lock()
	defer mu.Unlock()
	discoveryJobsTotal[status]++
	if found > 0 {
		domainsDiscovered += int64(found)
	}
	if skipped > 0 {
		domainsSkippedTotal[status] += int64(skipped)
	}
}

// SetQueueDepth records the current depth of a named job queue, sampled
// by the scheduler/runner rather than accumulated.
func SetQueueDepth(queueName string, depth int64) {
	mu.Lock()
	defer mu.Unlock()
	queueDepth[queueName] = depth
}

// RecordRetentionDeleted counts rows removed by the retention sweep,
// keyed by table name.
func RecordRetentionDeleted(table string, n int64) {
	if n <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	retentionRowsDeleted[table] += n
}

// Export renders every counter as Prometheus exposition text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP lakestream_jobs_total Total scrape jobs by domain and terminal status\n")
	b.WriteString("# TYPE lakestream_jobs_total counter\n")
	jobKeys := make([]jobKey, 0, len(jobsTotal))
	for k := range jobsTotal {
		jobKeys = append(jobKeys, k)
	}
	sort.Slice(jobKeys, func(i, j int) bool {
		if jobKeys[i].Domain != jobKeys[j].Domain {
			return jobKeys[i].Domain < jobKeys[j].Domain
		}
		return jobKeys[i].Status < jobKeys[j].Status
	})
	for _, k := range jobKeys {
		fmt.Fprintf(&b, "lakestream_jobs_total{domain=%q,status=%q} %d\n", k.Domain, k.Status, jobsTotal[k])
	}

	b.WriteString("# HELP lakestream_job_duration_ms_sum Total job duration in milliseconds by status\n")
	b.WriteString("# TYPE lakestream_job_duration_ms_sum counter\n")
	for _, status := range sortedKeys(jobDurationMsSum) {
		fmt.Fprintf(&b, "lakestream_job_duration_ms_sum{status=%q} %d\n", status, jobDurationMsSum[status])
	}

	b.WriteString("# HELP lakestream_job_cost_usd_sum Total recorded job cost in USD by status\n")
	b.WriteString("# TYPE lakestream_job_cost_usd_sum counter\n")
	for _, status := range sortedKeysFloat(jobCostUSDSum) {
		fmt.Fprintf(&b, "lakestream_job_cost_usd_sum{status=%q} %g\n", status, jobCostUSDSum[status])
	}

	fmt.Fprintf(&b, "# HELP lakestream_pages_scraped_total Total pages fetched across all jobs\n# TYPE lakestream_pages_scraped_total counter\nlakestream_pages_scraped_total %d\n", pagesScrapedSum)

	b.WriteString("# HELP lakestream_tier_used_total Total successful fetches by tier\n")
	b.WriteString("# TYPE lakestream_tier_used_total counter\n")
	for _, tier := range sortedKeys(tierUsedTotal) {
		fmt.Fprintf(&b, "lakestream_tier_used_total{tier=%q} %d\n", tier, tierUsedTotal[tier])
	}

	b.WriteString("# HELP lakestream_records_extracted_total Total ScrapedData rows produced by data type\n")
	b.WriteString("# TYPE lakestream_records_extracted_total counter\n")
	for _, dt := range sortedKeys(recordsByType) {
		fmt.Fprintf(&b, "lakestream_records_extracted_total{data_type=%q} %d\n", dt, recordsByType[dt])
	}

	b.WriteString("# HELP lakestream_webhook_deliveries_total Total webhook export attempts by domain and outcome\n")
	b.WriteString("# TYPE lakestream_webhook_deliveries_total counter\n")
	whKeys := make([]webhookKey, 0, len(webhookDeliveries))
	for k := range webhookDeliveries {
		whKeys = append(whKeys, k)
	}
	sort.Slice(whKeys, func(i, j int) bool {
		if whKeys[i].Domain != whKeys[j].Domain {
			return whKeys[i].Domain < whKeys[j].Domain
		}
		return whKeys[i].Success < whKeys[j].Success
	})
	for _, k := range whKeys {
		fmt.Fprintf(&b, "lakestream_webhook_deliveries_total{domain=%q,success=%q} %d\n", k.Domain, k.Success, webhookDeliveries[k])
	}

	b.WriteString("# HELP lakestream_discovery_jobs_total Total discovery job runs by status at end of run\n")
	b.WriteString("# TYPE lakestream_discovery_jobs_total counter\n")
	for _, status := range sortedKeys(discoveryJobsTotal) {
		fmt.Fprintf(&b, "lakestream_discovery_jobs_total{status=%q} %d\n", status, discoveryJobsTotal[status])
	}

	fmt.Fprintf(&b, "# HELP lakestream_domains_discovered_total Total domains surfaced by discovery jobs\n# TYPE lakestream_domains_discovered_total counter\nlakestream_domains_discovered_total %d\n", domainsDiscovered)

	b.WriteString("# HELP lakestream_queue_depth Current depth of a named job queue\n")
	b.WriteString("# TYPE lakestream_queue_depth gauge\n")
	for _, name := range sortedKeys(queueDepth) {
		fmt.Fprintf(&b, "lakestream_queue_depth{queue=%q} %d\n", name, queueDepth[name])
	}

	b.WriteString("# HELP lakestream_retention_rows_deleted_total Total rows deleted by the retention sweep, by table\n")
	b.WriteString("# TYPE lakestream_retention_rows_deleted_total counter\n")
	for _, table := range sortedKeys(retentionRowsDeleted) {
		fmt.Fprintf(&b, "lakestream_retention_rows_deleted_total{table=%q} %d\n", table, retentionRowsDeleted[table])
	}

	return b.String()
}

func sortedKeys(m map[string]int64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeysFloat(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
