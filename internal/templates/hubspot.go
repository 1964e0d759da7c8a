package templates

import (
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// HubSpot is checked second in the registry.
type HubSpot struct {
	cfg Config
}

func NewHubSpot() *HubSpot {
	return &HubSpot{cfg: Config{
		ID:                 "hubspot",
		DisplayName:        "HubSpot",
		PlatformSignals:    []string{"js.hs-scripts.com", "hs-analytics", "hubspot.com", "_hsq"},
		PathPatterns:       []string{"/blog"},
		RateLimitMs:        defaultRateLimit,
		MaxConcurrentPages: defaultMaxConcurrentPages,
		TitleSelectors:     []string{"h1.blog-post-title", "h1"},
		AuthorSelectors:    []string{".blog-author-name", ".hs-author-name"},
		CategorySelectors:  []string{".blog-tags a", ".topic-link"},
		ContentSelectors:   []string{".blog-post-body", ".hs-content-id", "article"},
		ExcerptSelectors:   []string{"meta[name=description]", ".post-summary"},
		BlogCardSelectors:  []string{".blog-post", ".blog-index-item"},
		BlogLinkSelectors:  []string{"h2 a", "h3 a", ".blog-post-title a"},
		TeamCardSelectors:  []string{".team-member", ".hs-team-member"},
		NameSelectors:      []string{".team-member-name", "h3"},
		JobTitleSelectors:  []string{".team-member-title"},

		PricingCardSelectors: []string{".pricing-card", ".hs-pricing-table .plan"},
		PricingNameSelectors: []string{"h2", "h3", ".plan-name"},
		FeatureListSelectors: []string{"ul li", ".feature-list li"},
		CTASelectors:         []string{"a.cta-button", ".hs-cta-wrapper a"},
	}}
}

func (t *HubSpot) Config() Config { return t.cfg }

func (t *HubSpot) DetectPlatform(doc *htmlparse.Document, _ string) bool {
	return hasSignal(doc.RawHTML(), t.cfg.PlatformSignals)
}

func (t *HubSpot) ExtractBlogURLs(doc *htmlparse.Document, _ string) []string {
	return extractBlogURLsByCards(doc, t.cfg.BlogCardSelectors, t.cfg.BlogLinkSelectors)
}

func (t *HubSpot) ExtractArticle(doc *htmlparse.Document, url string) model.Bag {
	return extractArticleCommon(doc, url, t.cfg)
}

func (t *HubSpot) ExtractContacts(doc *htmlparse.Document, url string) []model.Bag {
	return extractContactsCommon(doc, url, t.cfg)
}
