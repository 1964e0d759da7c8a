package templates

import (
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// Generic is the final, always-matching fallback in the registry, per
// §4.7: its detector always returns true so Detect can never fail to
// return a template.
type Generic struct {
	cfg Config
}

func NewGeneric() *Generic {
	return &Generic{cfg: Config{
		ID:                 "generic",
		DisplayName:        "Generic",
		PlatformSignals:    nil,
		RateLimitMs:        defaultRateLimit,
		MaxConcurrentPages: defaultMaxConcurrentPages,
		TitleSelectors:     []string{"title", "h1"},
		AuthorSelectors:    []string{"meta[name=author]", ".author", "[rel=author]"},
		CategorySelectors:  []string{".category a", ".tags a", "a[rel=tag]"},
		ContentSelectors:   []string{"article", "main", ".content", "#content", "body"},
		ExcerptSelectors:   []string{"meta[name=description]"},
		BlogCardSelectors:  []string{"article", ".post", ".blog-item"},
		BlogLinkSelectors:  []string{"h2 a", "h3 a", "a"},
		TeamCardSelectors:  []string{".team-member", ".team-card", ".person", ".staff"},
		NameSelectors:      []string{"h3", "h4", ".name"},
		JobTitleSelectors:  []string{".title", ".role", ".position"},

		PricingCardSelectors: []string{".pricing-card", ".price-card", ".plan", ".pricing-table .column"},
		PricingNameSelectors: []string{"h2", "h3", ".plan-name"},
		FeatureListSelectors: []string{"ul li", ".features li"},
		CTASelectors:         []string{"a.button", "a.btn", ".cta a"},
	}}
}

func (t *Generic) Config() Config { return t.cfg }

func (t *Generic) DetectPlatform(_ *htmlparse.Document, _ string) bool {
	return true
}

func (t *Generic) ExtractBlogURLs(doc *htmlparse.Document, _ string) []string {
	return extractBlogURLsByCards(doc, t.cfg.BlogCardSelectors, t.cfg.BlogLinkSelectors)
}

func (t *Generic) ExtractArticle(doc *htmlparse.Document, url string) model.Bag {
	return extractArticleCommon(doc, url, t.cfg)
}

func (t *Generic) ExtractContacts(doc *htmlparse.Document, url string) []model.Bag {
	return extractContactsCommon(doc, url, t.cfg)
}
