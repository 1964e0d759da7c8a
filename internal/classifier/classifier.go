// Package classifier maps a URL's path to a semantic data_type tag using
// an ordered list of regex rules, grounded on
// original_source/src/scraping/parser/url_classifier.py.
package classifier

import (
	"regexp"
	"strings"

	"github.com/Champ-Deep/LakeStream/internal/model"
)

type rule struct {
	dataType model.DataType
	patterns []*regexp.Regexp
}

// rules is deliberately ordered so that more specific types (pricing,
// contact/career, resource) precede the broad ones (blog/insights,
// team/about). Team/about paths map to "contact" per §4.6: team pages
// yield people, which are contacts.
var rules = []rule{
	{
		dataType: model.DataTypePricing,
		patterns: compile(`/pricing`, `/plans?`, `/price-?list`),
	},
	{
		dataType: model.DataTypeContact,
		patterns: compile(`/contact`, `/careers?`, `/jobs`, `/team`, `/about[-/]?(us)?`, `/people`, `/leadership`),
	},
	{
		dataType: model.DataTypeResource,
		patterns: compile(`/resources?`, `/whitepapers?`, `/case-stud(y|ies)`, `/webinars?`, `/ebooks?`, `/reports?`, `/downloads?`),
	},
	{
		dataType: model.DataTypeBlogURL,
		patterns: compile(`/blog`, `/insights?`, `/news`, `/articles?`, `/\d{4}/\d{2}/`),
	},
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

// Classify returns the data_type and confidence for a URL per §4.6: the
// first matching rule wins at confidence 0.8; an unmatched URL defaults to
// blog_url at confidence 0.2 (open question ii: downstream consumers
// should weigh this confidence rather than treat it as a firm tag).
func Classify(rawURL string) (model.DataType, float64) {
	lower := strings.ToLower(rawURL)
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(lower) {
				return r.dataType, 0.8
			}
		}
	}
	return model.DataTypeBlogURL, 0.2
}
