package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	assert.Equal(t, "LakeStream-Scraper/1.0", cfg.Scraper.UserAgent)
	assert.Equal(t, 30000, cfg.Scraper.TimeoutMs)
	assert.Equal(t, 0.0001, cfg.Scraper.Tier1CostUSD)
	assert.Equal(t, 0.002, cfg.Scraper.Tier2CostUSD)
	assert.Equal(t, 0.004, cfg.Scraper.Tier3CostUSD)
	assert.Equal(t, 10, cfg.Engine.MaxConcurrentJobs)
	assert.Equal(t, 1000, cfg.Engine.DefaultRateLimitMs)
	assert.Equal(t, 300, cfg.Engine.JobTimeoutSeconds)
	assert.Equal(t, 7, cfg.Engine.RecentScrapeSkipDays)
	assert.Equal(t, 100, cfg.Engine.DefaultMaxPages)
	assert.Equal(t, 30, cfg.Engine.RetentionDays)
	assert.Equal(t, 60, cfg.Scheduler.TrackedDomainTickMinutes)
	assert.Equal(t, 15, cfg.Scheduler.TrackedSearchTickMinutes)
	assert.Equal(t, 8090, cfg.Ops.Port)
	assert.Equal(t, "0.0.0.0", cfg.Ops.Host)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := Config{Scraper: ScraperConfig{UserAgent: "custom/1.0", Tier1CostUSD: 0.5}}
	cfg.applyDefaults()

	assert.Equal(t, "custom/1.0", cfg.Scraper.UserAgent)
	assert.Equal(t, 0.5, cfg.Scraper.Tier1CostUSD)
	assert.Equal(t, 0.002, cfg.Scraper.Tier2CostUSD)
}

func TestValidateRejectsMissingDSN(t *testing.T) {
	cfg := Config{Queue: QueueConfig{RedisURL: "redis://localhost:6379"}}
	cfg.applyDefaults()
	assert.ErrorContains(t, cfg.Validate(), "database.dsn")
}

func TestValidateRejectsMissingRedisURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{DSN: "postgres://localhost/db"}}
	cfg.applyDefaults()
	assert.ErrorContains(t, cfg.Validate(), "queue.redisURL")
}

func TestValidateRejectsNegativeConcurrency(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{DSN: "postgres://localhost/db"},
		Queue:    QueueConfig{RedisURL: "redis://localhost:6379"},
		Engine:   EngineConfig{MaxConcurrentJobs: -1},
	}
	assert.ErrorContains(t, cfg.Validate(), "maxConcurrentJobs")
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{DSN: "postgres://localhost/db"},
		Queue:    QueueConfig{RedisURL: "redis://localhost:6379"},
	}
	cfg.applyDefaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	assert.ErrorContains(t, cfg.Validate(), "nil")
}
