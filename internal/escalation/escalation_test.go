package escalation

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestInitialTierDefaultsToBasicHTTP(t *testing.T) {
	assert.Equal(t, model.TierBasicHTTP, InitialTier(nil))
	assert.Equal(t, model.TierBasicHTTP, InitialTier(&model.DomainMetadata{}))
}

func TestInitialTierUsesLastSuccessfulStrategy(t *testing.T) {
	meta := &model.DomainMetadata{LastSuccessfulStrategy: model.TierHeadlessProxy}
	assert.Equal(t, model.TierHeadlessProxy, InitialTier(meta))
}

func TestInitialTierIgnoresInvalidStrategy(t *testing.T) {
	meta := &model.DomainMetadata{LastSuccessfulStrategy: model.Tier("bogus")}
	assert.Equal(t, model.TierBasicHTTP, InitialTier(meta))
}

func TestShouldEscalate(t *testing.T) {
	assert.False(t, ShouldEscalate(nil))
	assert.True(t, ShouldEscalate(&model.FetchResult{Blocked: true}))
	assert.True(t, ShouldEscalate(&model.FetchResult{Captcha: true}))
	assert.True(t, ShouldEscalate(&model.FetchResult{Status: 403}))
	assert.True(t, ShouldEscalate(&model.FetchResult{Status: 429}))
	assert.True(t, ShouldEscalate(&model.FetchResult{Status: 503}))
	assert.True(t, ShouldEscalate(&model.FetchResult{Status: 200, Body: "short"}))
	assert.False(t, ShouldEscalate(&model.FetchResult{Status: 200, Body: string(make([]byte, 500))}))
}

func TestNextTier(t *testing.T) {
	assert.Equal(t, model.TierHeadlessBrowser, NextTier(model.TierBasicHTTP))
	assert.Equal(t, model.TierHeadlessProxy, NextTier(model.TierHeadlessBrowser))
	assert.Equal(t, model.Tier(""), NextTier(model.TierHeadlessProxy))
	assert.Equal(t, model.Tier(""), NextTier(model.Tier("unknown")))
}

func TestRecordOutcomeSuccess(t *testing.T) {
	meta := &model.DomainMetadata{}
	RecordOutcome(meta, model.TierHeadlessBrowser, true)
	assert.Equal(t, model.TierHeadlessBrowser, meta.LastSuccessfulStrategy)
	assert.Equal(t, int64(0), meta.BlockCount)
}

func TestRecordOutcomeFailureIncrementsBlockCount(t *testing.T) {
	meta := &model.DomainMetadata{BlockCount: 2, LastSuccessfulStrategy: model.TierBasicHTTP}
	RecordOutcome(meta, model.TierHeadlessProxy, false)
	assert.Equal(t, int64(3), meta.BlockCount)
	assert.Equal(t, model.TierBasicHTTP, meta.LastSuccessfulStrategy, "a failed attempt must not overwrite the last successful strategy")
}
