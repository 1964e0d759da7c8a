package templates

import (
	"strings"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// Directory covers listing/directory-style sites (e.g. business
// directories, marketplace profile pages) — checked fourth, before the
// always-matching Generic fallback.
type Directory struct {
	cfg Config
}

func NewDirectory() *Directory {
	return &Directory{cfg: Config{
		ID:                 "directory",
		DisplayName:        "Directory",
		PlatformSignals:    []string{"directory-listing", "business-directory", "listing-grid"},
		PathPatterns:       []string{"/listings", "/directory"},
		RateLimitMs:        defaultRateLimit,
		MaxConcurrentPages: defaultMaxConcurrentPages,
		TitleSelectors:     []string{"h1.listing-title", "h1"},
		AuthorSelectors:    []string{".listing-owner"},
		CategorySelectors:  []string{".listing-category a"},
		ContentSelectors:   []string{".listing-description", "article"},
		ExcerptSelectors:   []string{"meta[name=description]"},
		BlogCardSelectors:  []string{".listing-card", ".directory-item"},
		BlogLinkSelectors:  []string{"a.listing-link", "a"},
		TeamCardSelectors:  []string{".profile-card", ".member-card"},
		NameSelectors:      []string{".profile-name", "h3"},
		JobTitleSelectors:  []string{".profile-role"},

		PricingCardSelectors: []string{".pricing-card", ".listing-plan"},
		PricingNameSelectors: []string{"h2", "h3", ".plan-name"},
		FeatureListSelectors: []string{"ul li"},
		CTASelectors:         []string{"a.cta", "a.btn"},
	}}
}

func (t *Directory) Config() Config { return t.cfg }

func (t *Directory) DetectPlatform(doc *htmlparse.Document, url string) bool {
	if hasSignal(doc.RawHTML(), t.cfg.PlatformSignals) {
		return true
	}
	lowerURL := strings.ToLower(url)
	for _, p := range t.cfg.PathPatterns {
		if strings.Contains(lowerURL, p) {
			return true
		}
	}
	return false
}

func (t *Directory) ExtractBlogURLs(doc *htmlparse.Document, _ string) []string {
	return extractBlogURLsByCards(doc, t.cfg.BlogCardSelectors, t.cfg.BlogLinkSelectors)
}

func (t *Directory) ExtractArticle(doc *htmlparse.Document, url string) model.Bag {
	return extractArticleCommon(doc, url, t.cfg)
}

func (t *Directory) ExtractContacts(doc *htmlparse.Document, url string) []model.Bag {
	return extractContactsCommon(doc, url, t.cfg)
}
