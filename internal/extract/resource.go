package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

var resourceKeywords = map[string]string{
	"whitepaper":   "whitepaper",
	"white paper":  "whitepaper",
	"case study":   "case_study",
	"case-study":   "case_study",
	"webinar":      "webinar",
	"ebook":        "ebook",
	"e-book":       "ebook",
	"report":       "report",
	"infographic":  "infographic",
}

var resourceCardSelectors = []string{".resource-card", ".download-card", ".gated-content", "article"}

// Resources implements §4.9's resource parser: cards classified by
// keyword, dropping unrecognized types, always keeping direct asset links,
// deduplicated by URL.
func Resources(doc *htmlparse.Document, baseURL string) []model.Bag {
	seen := make(map[string]struct{})
	var out []model.Bag

	for _, cardSel := range resourceCardSelectors {
		doc.Selection().Find(cardSel).Each(func(_ int, card *goquery.Selection) {
			href, ok := card.Find("a[href]").First().Attr("href")
			if !ok {
				return
			}
			resolved := doc.Resolve(href)
			if resolved == "" {
				return
			}
			title := strings.TrimSpace(card.Find("h2, h3, .title").First().Text())
			text := strings.ToLower(title + " " + card.Text())

			resourceType, classified := classifyResourceType(text)
			isDirectAsset := isDirectAssetLink(resolved)
			if !classified && !isDirectAsset {
				return // a card lacking a recognized type is dropped
			}
			if _, dup := seen[resolved]; dup {
				return
			}
			seen[resolved] = struct{}{}

			bag := model.Bag{"url": resolved}
			if title != "" {
				bag["title"] = title
			}
			if classified {
				bag["resource_type"] = resourceType
			} else {
				bag["resource_type"] = "asset"
			}
			out = append(out, bag)
		})
	}

	// Direct asset links anywhere on the page are always kept even absent
	// a recognizable card wrapper: *.pdf / path containing "download", or
	// an anchor carrying the HTML `download` attribute.
	keep := func(link string) {
		if link == "" {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		out = append(out, model.Bag{"url": link, "resource_type": "asset"})
	}
	for _, link := range doc.ExtractLinks([]string{"a[href]"}) {
		if isDirectAssetLink(link) {
			keep(link)
		}
	}
	doc.Selection().Find("a[download]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			keep(doc.Resolve(href))
		}
	})

	return out
}

func classifyResourceType(text string) (string, bool) {
	for keyword, kind := range resourceKeywords {
		if strings.Contains(text, keyword) {
			return kind, true
		}
	}
	return "", false
}

func isDirectAssetLink(link string) bool {
	lower := strings.ToLower(link)
	if strings.HasSuffix(lower, ".pdf") {
		return true
	}
	if strings.Contains(lower, "download") {
		return true
	}
	return false
}
