package worker

import (
	"context"
	"net/url"

	"github.com/Champ-Deep/LakeStream/internal/extract"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// PricingFinder extracts pricing plans from pricing pages, one record
// per plan.
type PricingFinder struct {
	Base
}

func NewPricingFinder(base Base) *PricingFinder {
	return &PricingFinder{Base: base}
}

func (w *PricingFinder) Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error) {
	if len(urls) == 0 {
		w.Log.Info("no_pricing_urls")
		return nil, nil
	}
	w.Log.Info("finding_pricing", "url_count", len(urls))

	var records []model.ScrapedData
	for _, pageURL := range urls {
		result, err := w.FetchPage(ctx, pageURL)
		if err != nil {
			w.Log.Error("pricing_find_error", "url", pageURL, "error", err.Error())
			continue
		}
		if result.Blocked || result.Captcha {
			continue
		}

		base, _ := url.Parse(pageURL)
		doc, err := htmlparse.Parse(result.Body, base)
		if err != nil {
			w.Log.Error("pricing_find_error", "url", pageURL, "error", err.Error())
			continue
		}

		for _, plan := range extract.Pricing(w.Template, doc, pageURL) {
			records = append(records, newRecord(w.JobID, w.Domain, model.DataTypePricing, pageURL, stringField(plan, "plan_name"), plan))
		}
	}

	if _, err := w.ExportResults(ctx, records); err != nil {
		w.Log.Error("pricing_export_error", "error", err.Error())
	}
	w.Log.Info("pricing_found", "count", len(records))
	return records, nil
}
