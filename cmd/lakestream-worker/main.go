package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Champ-Deep/LakeStream/internal/config"
	"github.com/Champ-Deep/LakeStream/internal/costtracker"
	"github.com/Champ-Deep/LakeStream/internal/discovery"
	"github.com/Champ-Deep/LakeStream/internal/fetcher"
	"github.com/Champ-Deep/LakeStream/internal/jobs"
	"github.com/Champ-Deep/LakeStream/internal/mapper"
	"github.com/Champ-Deep/LakeStream/internal/migrate"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/opsapi"
	"github.com/Champ-Deep/LakeStream/internal/orchestrator"
	"github.com/Champ-Deep/LakeStream/internal/queue"
	"github.com/Champ-Deep/LakeStream/internal/ratelimit"
	"github.com/Champ-Deep/LakeStream/internal/scheduler"
	"github.com/Champ-Deep/LakeStream/internal/store"
	"github.com/Champ-Deep/LakeStream/internal/templates"
	"github.com/Champ-Deep/LakeStream/internal/webhook"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(*configPath)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	if err := migrate.Run(cfg.Database.DSN, "", logger); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db failed: %v", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	st := store.New(db)

	rdb, err := newRedisClient(cfg.Queue.RedisURL)
	if err != nil {
		log.Fatalf("connect redis failed: %v", err)
	}
	q := queue.NewQueue(rdb)

	costs := fetcher.Costs{
		BasicHTTP:       cfg.Scraper.Tier1CostUSD,
		HeadlessBrowser: cfg.Scraper.Tier2CostUSD,
		HeadlessProxy:   cfg.Scraper.Tier3CostUSD,
	}
	fetchers := fetcher.NewFactory(cfg.Scraper.UserAgent, cfg.Scraper.ProxyURL, costs)
	limiter := ratelimit.NewLimiter(cfg.Engine.DefaultRateLimitMs)
	tracker := costtracker.NewTracker(logger)
	exporter := webhook.NewExporter(logger)
	registry := templates.NewRegistry()

	orch := orchestrator.New(orchestrator.Config{
		Store:     st,
		Fetchers:  fetchers,
		Limiter:   limiter,
		Costs:     tracker,
		Webhooks:  exporter,
		Templates: registry,
		Log:       logger,
		RateLimMs: cfg.Engine.DefaultRateLimitMs,
		MaxPages:  cfg.Engine.DefaultMaxPages,
		MapperOpts: mapper.Options{
			UserAgent:     cfg.Scraper.UserAgent,
			FetchTimeout:  time.Duration(cfg.Scraper.TimeoutMs) * time.Millisecond,
			RespectRobots: cfg.Scraper.RespectRobotsTxt,
		},
	})

	disc := discovery.NewRunner(st, q, noopSearchProvider{}, logger, cfg.Engine.DefaultMaxPages)

	runner := jobs.NewRunner(st, q, orch, disc, logger, cfg.Engine.MaxConcurrentJobs, time.Duration(cfg.Engine.JobTimeoutSeconds)*time.Second)
	sched := scheduler.New(st, q, logger, cfg.Engine.RetentionDays)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go sched.Run(ctx)
	go func() {
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("runner_stopped", "error", err)
		}
	}()

	ops := opsapi.NewServer(cfg, st, q, rdb, logger)
	if err := ops.Listen(); err != nil {
		log.Fatalf("ops server failed: %v", err)
	}
}

func newRedisClient(rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// noopSearchProvider satisfies discovery.SearchProvider until a real
// search API client is wired in; it surfaces no results rather than
// fabricating ones, so discovery jobs complete immediately with zero
// domains found instead of stalling.
type noopSearchProvider struct{}

func (noopSearchProvider) Search(ctx context.Context, query string, page, resultsPerPage int) ([]model.SearchResult, error) {
	return nil, nil
}
