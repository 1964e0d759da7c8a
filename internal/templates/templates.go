// Package templates implements platform detection and the selector
// bundles each platform variant uses, grounded on spec §4.7 and
// original_source/src/templates/{base,registry,wordpress,generic}.py.
package templates

import (
	"strings"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// Config is the data-driven selector/behavior bundle for one template
// variant. Per §9's "selector ordering as data" design note, selector
// lists live here as configuration, not as code — adding a platform is a
// data change.
type Config struct {
	ID                 string
	DisplayName        string
	PlatformSignals    []string
	PathPatterns       []string
	RateLimitMs        int
	MaxConcurrentPages int

	TitleSelectors    []string
	AuthorSelectors   []string
	CategorySelectors []string
	ContentSelectors  []string
	ExcerptSelectors  []string

	BlogCardSelectors     []string
	BlogLinkSelectors     []string
	TeamCardSelectors     []string
	NameSelectors         []string
	JobTitleSelectors     []string
	PricingCardSelectors  []string
	PricingNameSelectors  []string
	FeatureListSelectors  []string
	CTASelectors          []string
}

// Template is the fixed capability set every platform variant implements.
type Template interface {
	Config() Config
	DetectPlatform(doc *htmlparse.Document, url string) bool
	ExtractBlogURLs(doc *htmlparse.Document, base string) []string
	ExtractArticle(doc *htmlparse.Document, url string) model.Bag
	ExtractContacts(doc *htmlparse.Document, url string) []model.Bag
}

// Registry holds the fixed-order list of templates: WordPress, HubSpot,
// Webflow, Directory, Generic. Generic is always last and always matches.
type Registry struct {
	ordered []Template
	byID    map[string]Template
}

// NewRegistry builds the registry in its fixed detection order.
func NewRegistry() *Registry {
	ordered := []Template{
		NewWordPress(),
		NewHubSpot(),
		NewWebflow(),
		NewDirectory(),
		NewGeneric(),
	}
	byID := make(map[string]Template, len(ordered))
	for _, t := range ordered {
		byID[t.Config().ID] = t
	}
	return &Registry{ordered: ordered, byID: byID}
}

// Detect runs platform detectors in fixed order and returns the first
// match. Generic's detector always returns true, so Detect never fails to
// return a template (§4.7: "Template-not-found is impossible in practice").
func (r *Registry) Detect(doc *htmlparse.Document, url string) Template {
	for _, t := range r.ordered {
		if t.DetectPlatform(doc, url) {
			return t
		}
	}
	return r.byID["generic"]
}

// ByID looks up a template explicitly requested by id. ok is false for an
// unknown id; callers should fall back to Detect.
func (r *Registry) ByID(id string) (Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// hasSignal checks a platform signal list against the case-folded body.
func hasSignal(html string, signals []string) bool {
	lower := strings.ToLower(html)
	for _, s := range signals {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// defaultRateLimit is used by templates that do not need a tighter cap.
const defaultRateLimit = 1000

// defaultMaxConcurrentPages matches §5's "typically 2-3" guidance.
const defaultMaxConcurrentPages = 2
