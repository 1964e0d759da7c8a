// Package queue implements the job queue contract from spec §6 on top
// of Redis lists, repurposing the go-redis client the teacher used only
// for auth rate limiting (internal/http/middleware.go) as this engine's
// actual work queue backing store.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ScrapeJobName is the queue contract's job name for a scrape job.
	ScrapeJobName = "process_scrape_job"
	// DiscoveryJobName is the queue contract's job name for a discovery job.
	DiscoveryJobName = "process_discovery_job"

	keyPrefix = "lakestream:queue:"
)

// ScrapeJobPayload is the kwargs shape for ScrapeJobName.
type ScrapeJobPayload struct {
	JobID      string   `json:"job_id"`
	Domain     string   `json:"domain"`
	TemplateID string   `json:"template_id"`
	MaxPages   int      `json:"max_pages"`
	DataTypes  []string `json:"data_types"`
}

// DiscoveryJobPayload is the kwargs shape for DiscoveryJobName.
type DiscoveryJobPayload struct {
	DiscoveryID string `json:"discovery_id"`
}

// Queue is a minimal FIFO job queue: Enqueue pushes a JSON-encoded
// payload onto a named list, Dequeue blocks until one is available.
type Queue struct {
	rdb *redis.Client
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// EnqueueScrapeJob pushes a process_scrape_job message.
func (q *Queue) EnqueueScrapeJob(ctx context.Context, payload ScrapeJobPayload) error {
	return q.enqueue(ctx, ScrapeJobName, payload)
}

// EnqueueDiscoveryJob pushes a process_discovery_job message.
func (q *Queue) EnqueueDiscoveryJob(ctx context.Context, payload DiscoveryJobPayload) error {
	return q.enqueue(ctx, DiscoveryJobName, payload)
}

func (q *Queue) enqueue(ctx context.Context, jobName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, keyPrefix+jobName, body).Err()
}

// DequeueScrapeJob blocks up to timeout for the next scrape job message.
// ok is false on a timeout (not an error).
func (q *Queue) DequeueScrapeJob(ctx context.Context, timeout time.Duration) (ScrapeJobPayload, bool, error) {
	var payload ScrapeJobPayload
	body, ok, err := q.blockingPop(ctx, ScrapeJobName, timeout)
	if !ok || err != nil {
		return payload, ok, err
	}
	return payload, true, json.Unmarshal(body, &payload)
}

// DequeueDiscoveryJob blocks up to timeout for the next discovery job message.
func (q *Queue) DequeueDiscoveryJob(ctx context.Context, timeout time.Duration) (DiscoveryJobPayload, bool, error) {
	var payload DiscoveryJobPayload
	body, ok, err := q.blockingPop(ctx, DiscoveryJobName, timeout)
	if !ok || err != nil {
		return payload, ok, err
	}
	return payload, true, json.Unmarshal(body, &payload)
}

func (q *Queue) blockingPop(ctx context.Context, jobName string, timeout time.Duration) ([]byte, bool, error) {
	res, err := q.rdb.BRPop(ctx, timeout, keyPrefix+jobName).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// BRPop returns [key, value].
	return []byte(res[1]), true, nil
}
