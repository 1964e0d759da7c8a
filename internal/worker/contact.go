package worker

import (
	"context"
	"net/url"
	"strings"

	"github.com/Champ-Deep/LakeStream/internal/extract"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// ContactFinder extracts people from contact/team/about pages, one
// record per person after dedupe.
type ContactFinder struct {
	Base
}

func NewContactFinder(base Base) *ContactFinder {
	return &ContactFinder{Base: base}
}

func (w *ContactFinder) Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error) {
	if len(urls) == 0 {
		w.Log.Info("no_contact_pages")
		return nil, nil
	}
	w.Log.Info("finding_contacts", "url_count", len(urls))

	var records []model.ScrapedData
	for _, pageURL := range urls {
		result, err := w.FetchPage(ctx, pageURL)
		if err != nil {
			w.Log.Error("contact_find_error", "url", pageURL, "error", err.Error())
			continue
		}
		if result.Blocked || result.Captcha {
			continue
		}

		base, _ := url.Parse(pageURL)
		doc, err := htmlparse.Parse(result.Body, base)
		if err != nil {
			w.Log.Error("contact_find_error", "url", pageURL, "error", err.Error())
			continue
		}

		for _, person := range extract.Contacts(w.Template, doc, pageURL) {
			title := strings.TrimSpace(stringField(person, "name"))
			records = append(records, newRecord(w.JobID, w.Domain, model.DataTypeContact, pageURL, title, person))
		}
	}

	if _, err := w.ExportResults(ctx, records); err != nil {
		w.Log.Error("contact_export_error", "error", err.Error())
	}
	w.Log.Info("contacts_found", "count", len(records))
	return records, nil
}

func stringField(b model.Bag, key string) string {
	if v, ok := b[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
