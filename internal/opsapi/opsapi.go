// Package opsapi exposes the worker process's ops-only surface: health,
// Prometheus-style metrics, and manual job enqueue. The full tenant/
// auth/dashboard HTTP layer the teacher builds around these primitives
// is an external collaborator outside this module's scope — this
// package only carries the operational endpoints an engine process
// needs for itself.
package opsapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Champ-Deep/LakeStream/internal/config"
	"github.com/Champ-Deep/LakeStream/internal/jobs"
	"github.com/Champ-Deep/LakeStream/internal/metrics"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/queue"
	"github.com/Champ-Deep/LakeStream/internal/store"
)

type Server struct {
	app    *fiber.App
	config *config.Config
}

func NewServer(cfg *config.Config, st *store.Store, q *queue.Queue, rdb *redis.Client, logger *slog.Logger) *Server {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("ops_request",
			"method", c.Method(), "path", c.Path(),
			"status", c.Response().StatusCode(), "latency_ms", time.Since(start).Milliseconds())
		return err
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if c.Query("deep") != "true" {
			return c.JSON(fiber.Map{"status": "ok"})
		}

		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := st.DB.PingContext(ctx); err != nil {
			dbStatus = "error"
		}
		redisStatus := "ok"
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "error"
		}
		rodStatus := "disabled"
		if cfg.Rod.Enabled {
			rodStatus = "enabled"
		}

		status := "ok"
		if dbStatus != "ok" || redisStatus != "ok" {
			status = "error"
		}
		return c.JSON(fiber.Map{"status": status, "db": dbStatus, "redis": redisStatus, "rod": rodStatus})
	})

	app.Get("/metrics", func(c *fiber.Ctx) error {
		c.Type("text/plain")
		return c.SendString(metrics.Export())
	})

	app.Post("/jobs/scrape", func(c *fiber.Ctx) error {
		var in manualScrapeInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(in.Domain) < 3 {
			return fiber.NewError(fiber.StatusBadRequest, "domain must be at least 3 characters")
		}
		in.applyDefaults()

		jobID := uuid.NewString()
		job := model.ScrapeJob{
			ID:         jobID,
			Domain:     in.Domain,
			TemplateID: in.TemplateID,
			Status:     string(jobs.StatusPending),
			DataTypes:  in.parsedDataTypes(),
			MaxPages:   in.MaxPages,
			Priority:   in.Priority,
		}
		if err := st.CreateScrapeJob(c.Context(), job); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "create job failed")
		}
		if err := q.EnqueueScrapeJob(c.Context(), queue.ScrapeJobPayload{
			JobID: jobID, Domain: job.Domain, TemplateID: job.TemplateID,
			MaxPages: job.MaxPages, DataTypes: in.DataTypes,
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "enqueue job failed")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID, "status": "pending"})
	})

	app.Get("/jobs/scrape/:id", func(c *fiber.Ctx) error {
		job, err := st.GetScrapeJob(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "load job failed")
		}
		if job == nil {
			return fiber.NewError(fiber.StatusNotFound, "job not found")
		}
		return c.JSON(job)
	})

	return &Server{app: app, config: cfg}
}

func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Ops.Host, s.config.Ops.Port)
	return s.app.Listen(addr)
}
