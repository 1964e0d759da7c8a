package templates

import (
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// Webflow is checked third in the registry.
type Webflow struct {
	cfg Config
}

func NewWebflow() *Webflow {
	return &Webflow{cfg: Config{
		ID:                 "webflow",
		DisplayName:        "Webflow",
		PlatformSignals:    []string{"webflow.com", "data-wf-page", "data-wf-site"},
		PathPatterns:       []string{"/blog"},
		RateLimitMs:        defaultRateLimit,
		MaxConcurrentPages: defaultMaxConcurrentPages,
		TitleSelectors:     []string{"h1.post-title", "h1"},
		AuthorSelectors:    []string{".author-name", ".w-dyn-item .author"},
		CategorySelectors:  []string{".category-tag", ".w-dyn-item .tag"},
		ContentSelectors:   []string{".post-body", ".w-richtext", "article"},
		ExcerptSelectors:   []string{"meta[name=description]", ".post-summary"},
		BlogCardSelectors:  []string{".w-dyn-item", ".blog-card"},
		BlogLinkSelectors:  []string{"a.blog-link", "a"},
		TeamCardSelectors:  []string{".team-card", ".w-dyn-item.team-member"},
		NameSelectors:      []string{".team-name", "h3"},
		JobTitleSelectors:  []string{".team-role"},

		PricingCardSelectors: []string{".pricing-card", ".w-dyn-item.pricing-plan"},
		PricingNameSelectors: []string{"h2", "h3", ".plan-name"},
		FeatureListSelectors: []string{"ul li", ".w-list-unstyled li"},
		CTASelectors:         []string{"a.cta-link", ".w-button"},
	}}
}

func (t *Webflow) Config() Config { return t.cfg }

func (t *Webflow) DetectPlatform(doc *htmlparse.Document, _ string) bool {
	return hasSignal(doc.RawHTML(), t.cfg.PlatformSignals)
}

func (t *Webflow) ExtractBlogURLs(doc *htmlparse.Document, _ string) []string {
	return extractBlogURLsByCards(doc, t.cfg.BlogCardSelectors, t.cfg.BlogLinkSelectors)
}

func (t *Webflow) ExtractArticle(doc *htmlparse.Document, url string) model.Bag {
	return extractArticleCommon(doc, url, t.cfg)
}

func (t *Webflow) ExtractContacts(doc *htmlparse.Document, url string) []model.Bag {
	return extractContactsCommon(doc, url, t.cfg)
}
