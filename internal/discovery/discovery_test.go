package discovery

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCollapseByDomainKeepsHighestScorePerDomain(t *testing.T) {
	hits := []model.SearchResult{
		{URL: "https://blog.acme.com/post-1", Score: 0.4},
		{URL: "https://www.acme.com/about", Score: 0.9},
		{URL: "https://acme.com/", Score: 0.7},
		{URL: "https://other.io/x", Score: 0.5},
	}

	out := collapseByDomain(hits)

	// www.acme.com and acme.com collapse; blog.acme.com is its own domain
	// because only a leading "www." is stripped.
	assert.Len(t, out, 3)
	assert.Equal(t, "https://www.acme.com/about", out[0].URL)
	assert.Equal(t, 0.9, out[0].Score)
	assert.Equal(t, "https://other.io/x", out[1].URL)
	assert.Equal(t, "https://blog.acme.com/post-1", out[2].URL)
}

func TestCollapseByDomainSkipsUnresolvableHosts(t *testing.T) {
	hits := []model.SearchResult{{URL: "not-a-url", Score: 1}}
	assert.Empty(t, collapseByDomain(hits))
}

func TestDataTypeStrings(t *testing.T) {
	in := []model.DataType{model.DataTypeArticle, model.DataTypeContact}
	assert.Equal(t, []string{"article", "contact"}, dataTypeStrings(in))
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
