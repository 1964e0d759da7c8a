package templates

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// extractBlogURLsByCards implements the shared "iterate card selectors,
// resolve the first matching link selector per card" shape used by every
// template's ExtractBlogURLs. Order is preserved and duplicates are
// dropped, satisfying S1 and Testable Property 8.
func extractBlogURLsByCards(doc *htmlparse.Document, cardSelectors, linkSelectors []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, cardSel := range cardSelectors {
		doc.Selection().Find(cardSel).Each(func(_ int, card *goquery.Selection) {
			for _, linkSel := range linkSelectors {
				href, ok := card.Find(linkSel).First().Attr("href")
				if !ok {
					continue
				}
				resolved := doc.Resolve(href)
				if resolved == "" {
					continue
				}
				if _, dup := seen[resolved]; dup {
					return
				}
				seen[resolved] = struct{}{}
				out = append(out, resolved)
				return
			}
		})
	}
	return out
}

// extractArticleCommon builds the article attribute bag shared by every
// template, per §4.9: author, categories, word count, excerpt, title, URL.
func extractArticleCommon(doc *htmlparse.Document, url string, cfg Config) model.Bag {
	bag := model.Bag{"url": url}
	if title := doc.ExtractTitle(); title != "" {
		bag["title"] = title
	}
	if author := doc.ExtractMeta("author"); author != "" {
		bag["author"] = author
	} else if text, ok := doc.FirstMatchText(cfg.AuthorSelectors); ok {
		bag["author"] = text
	}
	if categories := doc.ExtractCategories(cfg.CategorySelectors); len(categories) > 0 {
		bag["categories"] = categories
	}
	if wc := doc.CountWords(cfg.ContentSelectors); wc > 0 {
		bag["word_count"] = wc
	}
	if excerpt := doc.ExtractMeta("description"); excerpt != "" {
		bag["excerpt"] = excerpt
	} else if text, ok := doc.FirstMatchText(cfg.ExcerptSelectors); ok {
		bag["excerpt"] = text
	}
	return bag
}

// extractContactsCommon implements the team-card strategy (strategy 2 of
// §4.9's multi-strategy contact extraction); JSON-LD (strategy 1) and the
// regex fallback (strategy 3) are shared across all templates and live in
// internal/extract/contact.go, which calls this only when it yields
// nothing of its own.
func extractContactsCommon(doc *htmlparse.Document, _ string, cfg Config) []model.Bag {
	var out []model.Bag
	for _, cardSel := range cfg.TeamCardSelectors {
		doc.Selection().Find(cardSel).Each(func(_ int, card *goquery.Selection) {
			name := firstNonEmpty(card, cfg.NameSelectors)
			if name == "" {
				return
			}
			bag := model.Bag{"name": name, "title": name}
			if jobTitle := firstNonEmpty(card, cfg.JobTitleSelectors); jobTitle != "" {
				bag["job_title"] = jobTitle
			}
			card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				href, _ := a.Attr("href")
				if strings.Contains(href, "linkedin.com/in/") {
					bag["linkedin_url"] = href
					return false
				}
				return true
			})
			out = append(out, bag)
		})
	}
	return out
}

func firstNonEmpty(sel *goquery.Selection, selectors []string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
