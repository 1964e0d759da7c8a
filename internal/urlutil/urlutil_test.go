package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLowercasesAndStripsFragment(t *testing.T) {
	out, err := Normalize("HTTPS://WWW.Acme.COM/About/#section", nil)
	assert.NoError(t, err)
	assert.Equal(t, "https://www.acme.com/About", out)
}

func TestNormalizeResolvesRelativeAgainstBase(t *testing.T) {
	base, _ := url.Parse("https://acme.com/blog/")
	out, err := Normalize("../pricing", base)
	assert.NoError(t, err)
	assert.Equal(t, "https://acme.com/pricing", out)
}

func TestNormalizeKeepsBareRootSlash(t *testing.T) {
	out, err := Normalize("https://acme.com/", nil)
	assert.NoError(t, err)
	assert.Equal(t, "https://acme.com/", out)
}

func TestRegistrableDomainStripsWWW(t *testing.T) {
	assert.Equal(t, "acme.com", RegistrableDomain("www.acme.com"))
	assert.Equal(t, "acme.com", RegistrableDomain("ACME.COM"))
	assert.Equal(t, "blog.acme.com", RegistrableDomain("blog.acme.com"))
}

func TestSameRegistrableDomain(t *testing.T) {
	assert.True(t, SameRegistrableDomain("www.acme.com", "acme.com"))
	assert.False(t, SameRegistrableDomain("acme.com", "other.com"))
}

func TestIsScrapeWorthy(t *testing.T) {
	assert.False(t, IsScrapeWorthy(""))
	assert.False(t, IsScrapeWorthy("#top"))
	assert.False(t, IsScrapeWorthy("mailto:hi@acme.com"))
	assert.False(t, IsScrapeWorthy("tel:+15551234567"))
	assert.False(t, IsScrapeWorthy("javascript:void(0)"))
	assert.False(t, IsScrapeWorthy("https://acme.com/brochure.pdf"))
	assert.False(t, IsScrapeWorthy("https://acme.com/logo.PNG"))
	assert.True(t, IsScrapeWorthy("https://acme.com/about"))
}

func TestDedupePreservesFirstOccurrenceOrder(t *testing.T) {
	in := []string{"a", "b", "a", "c", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, Dedupe(in))
}
