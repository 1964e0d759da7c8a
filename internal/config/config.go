// Package config loads the worker process's nested YAML configuration,
// following the teacher's os.Open + yaml.NewDecoder, fatal-on-error
// startup pattern.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type QueueConfig struct {
	RedisURL string `yaml:"redisURL"`
}

// ScraperConfig controls the fetch tier chain: per-tier costs, the
// shared user agent, and the optional tier-3 proxy. TimeoutMs bounds the
// domain mapper's requests only; tier-chain fetches use the orchestrator's
// fixed per-fetch timeout.
type ScraperConfig struct {
	UserAgent         string  `yaml:"userAgent"`
	TimeoutMs         int     `yaml:"timeoutMs"`
	ProxyURL          string  `yaml:"proxyURL"`
	Tier1CostUSD      float64 `yaml:"tier1CostUSD"`
	Tier2CostUSD      float64 `yaml:"tier2CostUSD"`
	Tier3CostUSD      float64 `yaml:"tier3CostUSD"`
	RespectRobotsTxt  bool    `yaml:"respectRobotsTxt"`
}

// RodConfig controls the go-rod headless browser transport backing
// Tier 2/3 fetches.
type RodConfig struct {
	Enabled bool `yaml:"enabled"`
	Stealth bool `yaml:"stealth"`
}

// EngineConfig controls the job runner and per-domain rate limiter.
type EngineConfig struct {
	MaxConcurrentJobs     int `yaml:"maxConcurrentJobs"`
	DefaultRateLimitMs    int `yaml:"defaultRateLimitMs"`
	JobTimeoutSeconds     int `yaml:"jobTimeoutSeconds"`
	RecentScrapeSkipDays  int `yaml:"recentScrapeSkipDays"`
	DefaultMaxPages       int `yaml:"defaultMaxPages"`
	RetentionDays         int `yaml:"retentionDays"`
}

// SchedulerConfig holds tick intervals in minutes from §4.12. These fields
// are loaded and defaulted here only; the scheduler does not read them and
// always ticks on its fixed TrackedDomainTick and TrackedSearchTick.
type SchedulerConfig struct {
	TrackedDomainTickMinutes int `yaml:"trackedDomainTickMinutes"`
	TrackedSearchTickMinutes int `yaml:"trackedSearchTickMinutes"`
}

// OpsConfig controls the minimal health/metrics/manual-enqueue Fiber
// surface — never the full tenant/auth/dashboard HTTP layer.
type OpsConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Queue     QueueConfig     `yaml:"queue"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Rod       RodConfig       `yaml:"rod"`
	Engine    EngineConfig    `yaml:"engine"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Ops       OpsConfig       `yaml:"ops"`
}

// Load reads and decodes the YAML config at path, applying defaults,
// and exits the process on any error — matching the teacher's fail-fast
// startup behavior.
func Load(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = "LakeStream-Scraper/1.0"
	}
	if cfg.Scraper.TimeoutMs == 0 {
		cfg.Scraper.TimeoutMs = 30000
	}
	if cfg.Scraper.Tier1CostUSD == 0 {
		cfg.Scraper.Tier1CostUSD = 0.0001
	}
	if cfg.Scraper.Tier2CostUSD == 0 {
		cfg.Scraper.Tier2CostUSD = 0.002
	}
	if cfg.Scraper.Tier3CostUSD == 0 {
		cfg.Scraper.Tier3CostUSD = 0.004
	}
	if cfg.Engine.MaxConcurrentJobs == 0 {
		cfg.Engine.MaxConcurrentJobs = 10
	}
	if cfg.Engine.DefaultRateLimitMs == 0 {
		cfg.Engine.DefaultRateLimitMs = 1000
	}
	if cfg.Engine.JobTimeoutSeconds == 0 {
		cfg.Engine.JobTimeoutSeconds = 300
	}
	if cfg.Engine.RecentScrapeSkipDays == 0 {
		cfg.Engine.RecentScrapeSkipDays = 7
	}
	if cfg.Engine.DefaultMaxPages == 0 {
		cfg.Engine.DefaultMaxPages = 100
	}
	if cfg.Engine.RetentionDays == 0 {
		cfg.Engine.RetentionDays = 30
	}
	if cfg.Scheduler.TrackedDomainTickMinutes == 0 {
		cfg.Scheduler.TrackedDomainTickMinutes = 60
	}
	if cfg.Scheduler.TrackedSearchTickMinutes == 0 {
		cfg.Scheduler.TrackedSearchTickMinutes = 15
	}
	if cfg.Ops.Port == 0 {
		cfg.Ops.Port = 8090
	}
	if cfg.Ops.Host == "" {
		cfg.Ops.Host = "0.0.0.0"
	}
}

// Validate performs basic sanity checks so obviously incomplete
// configuration fails fast at startup rather than during the first job.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn must be set")
	}
	if cfg.Queue.RedisURL == "" {
		return errors.New("queue.redisURL must be set")
	}
	if cfg.Engine.MaxConcurrentJobs < 1 {
		return fmt.Errorf("engine.maxConcurrentJobs must be >= 1, got %d", cfg.Engine.MaxConcurrentJobs)
	}
	return nil
}
