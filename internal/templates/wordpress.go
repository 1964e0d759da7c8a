package templates

import (
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// WordPress is the first-checked template variant.
type WordPress struct {
	cfg Config
}

// NewWordPress constructs the WordPress template with its selector bundle.
func NewWordPress() *WordPress {
	return &WordPress{cfg: Config{
		ID:                 "wordpress",
		DisplayName:        "WordPress",
		PlatformSignals:    []string{"wp-content", "wp-includes", "wp-json"},
		PathPatterns:       []string{"/blog", "/category"},
		RateLimitMs:        defaultRateLimit,
		MaxConcurrentPages: defaultMaxConcurrentPages,
		TitleSelectors:     []string{"h1.entry-title", "h1.post-title", "title"},
		AuthorSelectors:    []string{"meta[name=author]", ".author-name", ".byline a"},
		CategorySelectors:  []string{".category", ".tags a", "a[rel=category]"},
		ContentSelectors:   []string{".entry-content", "article .content", "article"},
		ExcerptSelectors:   []string{"meta[name=description]", ".entry-summary"},
		BlogCardSelectors:  []string{"article.post", ".post", "article"},
		BlogLinkSelectors:  []string{"h2.entry-title a[rel=bookmark]", "h2.entry-title a", ".entry-title a"},
		TeamCardSelectors:  []string{".team-member", ".staff-member"},
		NameSelectors:      []string{".team-member-name", "h3", "h4"},
		JobTitleSelectors:  []string{".team-member-title", ".position"},

		PricingCardSelectors: []string{".pricing-table .plan", ".price-box", ".pricing-card"},
		PricingNameSelectors: []string{"h2", "h3", ".plan-name"},
		FeatureListSelectors: []string{"ul li", ".features li"},
		CTASelectors:         []string{"a.button", ".cta a", "a.btn"},
	}}
}

func (t *WordPress) Config() Config { return t.cfg }

func (t *WordPress) DetectPlatform(doc *htmlparse.Document, _ string) bool {
	return hasSignal(doc.RawHTML(), t.cfg.PlatformSignals)
}

// ExtractBlogURLs walks each blog-card selector and, within it, resolves
// the first matching link selector, preserving document order and
// deduplicating — this is the behavior exercised by end-to-end scenario
// S1 (WordPress blog landing).
func (t *WordPress) ExtractBlogURLs(doc *htmlparse.Document, _ string) []string {
	return extractBlogURLsByCards(doc, t.cfg.BlogCardSelectors, t.cfg.BlogLinkSelectors)
}

func (t *WordPress) ExtractArticle(doc *htmlparse.Document, url string) model.Bag {
	return extractArticleCommon(doc, url, t.cfg)
}

func (t *WordPress) ExtractContacts(doc *htmlparse.Document, url string) []model.Bag {
	return extractContactsCommon(doc, url, t.cfg)
}
