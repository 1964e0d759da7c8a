package costtracker

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordCostAccumulatesBothLedgers(t *testing.T) {
	tr := NewTracker(testLogger())
	tr.RecordCost("job-1", "acme.com", 0.002)
	tr.RecordCost("job-1", "acme.com", 0.004)
	tr.RecordCost("job-2", "acme.com", 0.001)

	assert.InDelta(t, 0.006, tr.JobCost("job-1"), 1e-9)
	assert.InDelta(t, 0.007, tr.DomainCost("acme.com"), 1e-9)
	assert.InDelta(t, 0.001, tr.JobCost("job-2"), 1e-9)
}

func TestJobCostUnknownJobIsZero(t *testing.T) {
	tr := NewTracker(testLogger())
	assert.Equal(t, 0.0, tr.JobCost("missing"))
}

func TestCheckBudget(t *testing.T) {
	tr := NewTracker(testLogger())
	tr.RecordCost("job-1", "acme.com", 1.0)

	assert.True(t, tr.CheckBudget("job-1", 2.0))
	assert.False(t, tr.CheckBudget("job-1", 1.0), "a job at exactly budget must report over")
	assert.False(t, tr.CheckBudget("job-1", 0.5))
}

func TestForgetJobClearsOnlyJobLedger(t *testing.T) {
	tr := NewTracker(testLogger())
	tr.RecordCost("job-1", "acme.com", 1.0)
	tr.ForgetJob("job-1")

	assert.Equal(t, 0.0, tr.JobCost("job-1"))
	assert.InDelta(t, 1.0, tr.DomainCost("acme.com"), 1e-9)
}
