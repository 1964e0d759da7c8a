package worker

import (
	"context"
	"net/url"

	"github.com/Champ-Deep/LakeStream/internal/extract"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// ResourceFinder discovers whitepapers, case studies, webinars and other
// gated/downloadable resources, deduplicated by URL across all input
// URLs (not just within a single page).
type ResourceFinder struct {
	Base
}

func NewResourceFinder(base Base) *ResourceFinder {
	return &ResourceFinder{Base: base}
}

func (w *ResourceFinder) Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error) {
	if len(urls) == 0 {
		w.Log.Info("no_resource_urls")
		return nil, nil
	}
	w.Log.Info("finding_resources", "url_count", len(urls))

	seen := make(map[string]struct{})
	var records []model.ScrapedData
	for _, pageURL := range urls {
		result, err := w.FetchPage(ctx, pageURL)
		if err != nil {
			w.Log.Error("resource_find_error", "url", pageURL, "error", err.Error())
			continue
		}
		if result.Blocked || result.Captcha {
			continue
		}

		base, _ := url.Parse(pageURL)
		doc, err := htmlparse.Parse(result.Body, base)
		if err != nil {
			w.Log.Error("resource_find_error", "url", pageURL, "error", err.Error())
			continue
		}

		for _, res := range extract.Resources(doc, pageURL) {
			resURL := stringField(res, "url")
			if resURL == "" {
				resURL = pageURL
			}
			if _, dup := seen[resURL]; dup {
				continue
			}
			seen[resURL] = struct{}{}
			records = append(records, newRecord(w.JobID, w.Domain, model.DataTypeResource, resURL, stringField(res, "title"), res))
		}
	}

	if _, err := w.ExportResults(ctx, records); err != nil {
		w.Log.Error("resource_export_error", "error", err.Error())
	}
	w.Log.Info("resources_found", "count", len(records))
	return records, nil
}
