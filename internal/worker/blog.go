package worker

import (
	"context"
	"net/url"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// BlogExtractor walks blog landing pages and records the article links
// found on each, carrying them forward for ArticleParser per §4.10.
type BlogExtractor struct {
	Base
	articleURLs []string
}

func NewBlogExtractor(base Base) *BlogExtractor {
	return &BlogExtractor{Base: base}
}

// ArticleURLs is read by the orchestrator after Execute runs to build
// ArticleParser's input set — §4.10 requires BlogExtractor's yield to
// feed ArticleParser directly rather than re-deriving it downstream.
func (w *BlogExtractor) ArticleURLs() []string { return w.articleURLs }

func (w *BlogExtractor) Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error) {
	if len(urls) == 0 {
		w.Log.Info("no_blog_urls_to_process")
		return nil, nil
	}
	w.Log.Info("extracting_blogs", "url_count", len(urls))

	var records []model.ScrapedData
	for _, pageURL := range urls {
		result, err := w.FetchPage(ctx, pageURL)
		if err != nil {
			w.Log.Error("blog_extract_error", "url", pageURL, "error", err.Error())
			continue
		}
		if result.Blocked || result.Captcha {
			w.Log.Warn("blocked", "url", pageURL)
			continue
		}

		base, _ := url.Parse(pageURL)
		doc, err := htmlparse.Parse(result.Body, base)
		if err != nil {
			w.Log.Error("blog_extract_error", "url", pageURL, "error", err.Error())
			continue
		}

		articleLinks := doc.ExtractLinks([]string{
			"article a", "h2 a", ".post-title a", ".entry-title a", "a[rel=bookmark]",
		})
		w.articleURLs = append(w.articleURLs, articleLinks...)

		bag := model.Bag{
			"landing_url":    pageURL,
			"article_urls":   articleLinks,
			"total_articles": len(articleLinks),
		}
		records = append(records, newRecord(w.JobID, w.Domain, model.DataTypeBlogURL, pageURL, doc.ExtractTitle(), bag))
	}

	if _, err := w.ExportResults(ctx, records); err != nil {
		w.Log.Error("blog_export_error", "error", err.Error())
	}
	w.Log.Info("blogs_extracted", "count", len(records))
	return records, nil
}
