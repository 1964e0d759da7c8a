package metrics

import (
	"strings"
	"testing"
)

func TestRecordJobStatusAndExport(t *testing.T) {
	RecordJobStatus("example.com", "completed", 1500, 0.02)

	out := Export()
	if !strings.Contains(out, `lakestream_jobs_total{domain="example.com",status="completed"} 1`) {
		t.Fatalf("expected job status metric in export, got:\n%s", out)
	}
	if !strings.Contains(out, "lakestream_job_duration_ms_sum") {
		t.Fatalf("expected job duration metric in export, got:\n%s", out)
	}
}

func TestRecordTierAndRecordsExtracted(t *testing.T) {
	RecordTierUsed("headless_browser")
	RecordExtracted("article", 4)

	out := Export()
	if !strings.Contains(out, `lakestream_tier_used_total{tier="headless_browser"}`) {
		t.Fatalf("expected tier_used metric in export, got:\n%s", out)
	}
	if !strings.Contains(out, `lakestream_records_extracted_total{data_type="article"} 4`) {
		t.Fatalf("expected records_extracted metric in export, got:\n%s", out)
	}
}

func TestRecordWebhookAndDiscovery(t *testing.T) {
	RecordWebhookDelivery("example.com", true)
	RecordWebhookDelivery("example.com", false)
	RecordDiscoveryJob("completed", 5, 2)

	out := Export()
	if !strings.Contains(out, `lakestream_webhook_deliveries_total{domain="example.com",success="true"} 1`) {
		t.Fatalf("expected successful webhook delivery metric, got:\n%s", out)
	}
	if !strings.Contains(out, `lakestream_webhook_deliveries_total{domain="example.com",success="false"} 1`) {
		t.Fatalf("expected failed webhook delivery metric, got:\n%s", out)
	}
	if !strings.Contains(out, `lakestream_discovery_jobs_total{status="completed"} 1`) {
		t.Fatalf("expected discovery job metric, got:\n%s", out)
	}
	if !strings.Contains(out, "lakestream_domains_discovered_total 5") {
		t.Fatalf("expected domains_discovered metric, got:\n%s", out)
	}
}

func TestSetQueueDepth(t *testing.T) {
	SetQueueDepth("scrape", 3)

	out := Export()
	if !strings.Contains(out, `lakestream_queue_depth{queue="scrape"} 3`) {
		t.Fatalf("expected queue depth gauge in export, got:\n%s", out)
	}
}
