package worker

import (
	"context"
	"net/url"

	"github.com/Champ-Deep/LakeStream/internal/extract"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

// ArticleParser parses individual article pages found by BlogExtractor.
type ArticleParser struct {
	Base
}

func NewArticleParser(base Base) *ArticleParser {
	return &ArticleParser{Base: base}
}

func (w *ArticleParser) Execute(ctx context.Context, urls []string) ([]model.ScrapedData, error) {
	if len(urls) == 0 {
		w.Log.Info("no_articles_to_parse")
		return nil, nil
	}
	w.Log.Info("parsing_articles", "count", len(urls))

	var records []model.ScrapedData
	for _, pageURL := range urls {
		result, err := w.FetchPage(ctx, pageURL)
		if err != nil {
			w.Log.Error("article_parse_error", "url", pageURL, "error", err.Error())
			continue
		}
		if result.Blocked || result.Captcha {
			continue
		}

		base, _ := url.Parse(pageURL)
		doc, err := htmlparse.Parse(result.Body, base)
		if err != nil {
			w.Log.Error("article_parse_error", "url", pageURL, "error", err.Error())
			continue
		}

		bag := extract.Article(w.Template, doc, pageURL)
		records = append(records, newRecord(w.JobID, w.Domain, model.DataTypeArticle, pageURL, doc.ExtractTitle(), bag))
	}

	if _, err := w.ExportResults(ctx, records); err != nil {
		w.Log.Error("article_export_error", "error", err.Error())
	}
	w.Log.Info("articles_parsed", "count", len(records))
	return records, nil
}
