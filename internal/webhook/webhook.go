// Package webhook implements the export contract from spec §6: a
// fire-and-forget JSON POST of a completed job's records to a tracked
// domain's configured webhook URL. Grounded on
// original_source/src/services/webhook_export.py.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/retry"
)

// maxDeliveryAttempts is the retry count passed to retry.Do for a single
// webhook delivery (one POST plus up to three retries on a network error
// or 5xx); deliveries are fire-and-forget so there is no point
// retrying as aggressively as a scrape fetch would.
const maxDeliveryAttempts = 3

const (
	source     = "lake_b2b_scraper"
	userAgent  = "LakeStream-Scraper/1.0"
	requestTTL = 30 * time.Second
)

type payload struct {
	Source  string    `json:"source"`
	Trigger string    `json:"trigger"`
	JobID   string    `json:"job_id"`
	Count   int       `json:"count"`
	Data    []dataRow `json:"data"`
}

type dataRow struct {
	ID         string     `json:"id"`
	Domain     string     `json:"domain"`
	DataType   string     `json:"data_type"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Metadata   model.Bag  `json:"metadata"`
	ScrapedAt  *time.Time `json:"scraped_at"`
}

// Exporter posts a job's scraped records to a webhook URL.
type Exporter struct {
	client *http.Client
	log    *slog.Logger
}

func NewExporter(log *slog.Logger) *Exporter {
	return &Exporter{
		client: &http.Client{Timeout: requestTTL},
		log:    log,
	}
}

// Send posts records to webhookURL under the given trigger label
// ("scheduled", "manual", ...). A response status in 2xx/3xx counts as
// accepted; any other outcome is logged and swallowed — a webhook
// failure never affects the job's own status (§4.11).
func (e *Exporter) Send(ctx context.Context, webhookURL, trigger, jobID string, records []model.ScrapedData) bool {
	if len(records) == 0 {
		e.log.Info("webhook_export_skipped", "job_id", jobID, "reason", "no_data")
		return true
	}

	rows := make([]dataRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dataRow{
			ID:        r.ID,
			Domain:    r.Domain,
			DataType:  string(r.DataType),
			URL:       r.URL,
			Title:     r.Title,
			Metadata:  r.Metadata,
			ScrapedAt: &r.ScrapedAt,
		})
	}

	body, err := json.Marshal(payload{
		Source:  source,
		Trigger: trigger,
		JobID:   jobID,
		Count:   len(rows),
		Data:    rows,
	})
	if err != nil {
		e.log.Error("webhook_export_failed", "job_id", jobID, "error", err.Error())
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, requestTTL)
	defer cancel()

	var statusCode int
	err = retry.Do(ctx, maxDeliveryAttempts, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := e.client.Do(req)
		if err != nil {
			return goretry.RetryableError(err)
		}
		defer resp.Body.Close()
		statusCode = resp.StatusCode
		if resp.StatusCode >= 500 {
			return goretry.RetryableError(fmt.Errorf("webhook returned %d", resp.StatusCode))
		}
		return nil
	})
	if err != nil {
		e.log.Error("webhook_export_failed", "job_id", jobID, "webhook_url", webhookURL, "error", err.Error())
		return false
	}

	success := statusCode < 400
	e.log.Info("webhook_export_sent", "job_id", jobID, "webhook_url", webhookURL, "status", statusCode, "records", len(rows), "success", success)
	return success
}
