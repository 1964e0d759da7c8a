package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/templates"
)

var currencyRe = regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d+)?|\d[\d,]*(?:\.\d+)?\s?(?:USD|EUR|GBP)`)

var billingCycleKeywords = []string{"monthly", "annual", "yearly", "quarterly"}

const maxPricingFeatures = 10

// Pricing implements §4.9's pricing parser: a page yields pricing records
// only when it carries at least two recognizable pricing cards; each card
// contributes a plan name, price, billing cycle, up to ten bullet
// features, a free-trial flag, and CTA button text.
func Pricing(tpl templates.Template, doc *htmlparse.Document, _ string) []model.Bag {
	cfg := tpl.Config()

	cards := make([]*goquery.Selection, 0)
	for _, sel := range cfg.PricingCardSelectors {
		doc.Selection().Find(sel).Each(func(_ int, card *goquery.Selection) {
			cards = append(cards, card)
		})
	}
	if len(cards) < 2 {
		return nil
	}

	out := make([]model.Bag, 0, len(cards))
	for _, card := range cards {
		out = append(out, pricingCardToBag(card, cfg))
	}
	return out
}

func pricingCardToBag(card *goquery.Selection, cfg templates.Config) model.Bag {
	text := card.Text()
	bag := model.Bag{}

	if name := firstNonEmptyIn(card, cfg.PricingNameSelectors); name != "" {
		bag["plan_name"] = name
	}
	if price := currencyRe.FindString(text); price != "" {
		bag["price"] = strings.TrimSpace(price)
	}
	bag["billing_cycle"] = billingCycle(text)
	if features := cardFeatures(card, cfg.FeatureListSelectors); len(features) > 0 {
		bag["features"] = features
	}
	bag["has_free_trial"] = strings.Contains(strings.ToLower(text), "free trial")
	if cta := firstNonEmptyIn(card, cfg.CTASelectors); cta != "" {
		bag["cta_text"] = cta
	}
	return bag
}

func billingCycle(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range billingCycleKeywords {
		if strings.Contains(lower, kw) {
			if kw == "yearly" {
				return "annual"
			}
			return kw
		}
	}
	return "unknown"
}

func cardFeatures(card *goquery.Selection, selectors []string) []string {
	var features []string
	for _, sel := range selectors {
		card.Find(sel).EachWithBreak(func(_ int, item *goquery.Selection) bool {
			if text := strings.TrimSpace(item.Text()); text != "" {
				features = append(features, text)
			}
			return len(features) < maxPricingFeatures
		})
		if len(features) > 0 {
			break
		}
	}
	if len(features) > maxPricingFeatures {
		features = features[:maxPricingFeatures]
	}
	return features
}

func firstNonEmptyIn(sel *goquery.Selection, selectors []string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
