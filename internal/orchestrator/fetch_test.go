package orchestrator

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewEscalatingFetcherStartsAtBasicHTTP(t *testing.T) {
	f := newEscalatingFetcher("job-1", nil, nil, nil, nil, 0)
	assert.Equal(t, model.TierBasicHTTP, f.HighestTierUsed())
	assert.Equal(t, 0, f.PagesFetched())
}

func TestNoteTierOnlyEscalatesHighest(t *testing.T) {
	f := newEscalatingFetcher("job-1", nil, nil, nil, nil, 0)

	f.noteTier(model.TierHeadlessBrowser)
	assert.Equal(t, model.TierHeadlessBrowser, f.HighestTierUsed())

	f.noteTier(model.TierBasicHTTP)
	assert.Equal(t, model.TierHeadlessBrowser, f.HighestTierUsed(), "a lower tier must not downgrade the recorded highest")

	f.noteTier(model.TierHeadlessProxy)
	assert.Equal(t, model.TierHeadlessProxy, f.HighestTierUsed())
}

func TestHostOf(t *testing.T) {
	cases := map[string]string{
		"https://www.acme.com/about?x=1": "www.acme.com",
		"http://acme.com":                "acme.com",
		"https://acme.com/a/b#frag":      "acme.com",
	}
	for in, want := range cases {
		assert.Equal(t, want, hostOf(in), in)
	}
}
