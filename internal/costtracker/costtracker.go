// Package costtracker keeps the dual per-job and per-domain cost ledgers
// referenced by Open Question (i): the orchestrator accumulates real
// per-fetch costs here instead of leaving cost_usd at zero.
// Grounded on original_source/src/services/cost_tracker.py.
package costtracker

import (
	"log/slog"
	"sync"
)

// Tracker accumulates cost_usd across a job's lifetime and across a
// domain's lifetime (the latter purely informational; only the job
// ledger is persisted onto ScrapeJob.CostUSD).
type Tracker struct {
	mu          sync.Mutex
	jobCosts    map[string]float64
	domainCosts map[string]float64
	log         *slog.Logger
}

func NewTracker(log *slog.Logger) *Tracker {
	return &Tracker{
		jobCosts:    make(map[string]float64),
		domainCosts: make(map[string]float64),
		log:         log,
	}
}

// RecordCost adds cost to both ledgers and returns the amount recorded.
func (t *Tracker) RecordCost(jobID, domain string, cost float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobCosts[jobID] += cost
	t.domainCosts[domain] += cost
	return cost
}

func (t *Tracker) JobCost(jobID string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.jobCosts[jobID]
}

func (t *Tracker) DomainCost(domain string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.domainCosts[domain]
}

// CheckBudget reports whether jobID is still under maxJobCost. A job at
// or above budget is logged but not aborted: cost overrun is advisory
// here, not a hard kill, and no caller cancels a job mid-run on it.
func (t *Tracker) CheckBudget(jobID string, maxJobCost float64) bool {
	current := t.JobCost(jobID)
	if current >= maxJobCost {
		if t.log != nil {
			t.log.Warn("budget_exceeded", "job_id", jobID, "current_cost", current, "max_cost", maxJobCost)
		}
		return false
	}
	return true
}

// ForgetJob releases a completed job's ledger entry.
func (t *Tracker) ForgetJob(jobID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobCosts, jobID)
}
