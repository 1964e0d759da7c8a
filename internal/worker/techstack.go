package worker

import (
	"context"
	"net/url"

	"github.com/Champ-Deep/LakeStream/internal/extract"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// TechDetector always runs against the domain's homepage and produces a
// single tech_stack record.
type TechDetector struct {
	Base
}

func NewTechDetector(base Base) *TechDetector {
	return &TechDetector{Base: base}
}

func (w *TechDetector) Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	w.Log.Info("detecting_tech_stack", "url_count", len(urls))

	pageURL := urls[0]
	result, err := w.FetchPage(ctx, pageURL)
	if err != nil {
		w.Log.Error("tech_detect_error", "url", pageURL, "error", err.Error())
		return nil, nil
	}
	if result.Blocked || result.Captcha {
		w.Log.Warn("blocked", "url", pageURL)
		return nil, nil
	}

	base, _ := url.Parse(pageURL)
	doc, err := htmlparse.Parse(result.Body, base)
	if err != nil {
		w.Log.Error("tech_detect_error", "url", pageURL, "error", err.Error())
		return nil, nil
	}

	bag := extract.TechStack(doc, flattenHeaders(result.Headers))
	record := newRecord(w.JobID, w.Domain, model.DataTypeTechStack, pageURL, "Tech Stack: "+w.Domain, bag)

	if _, err := w.ExportResults(ctx, []model.ScrapedData{record}); err != nil {
		w.Log.Error("techstack_export_error", "error", err.Error())
	}
	return []model.ScrapedData{record}, nil
}
