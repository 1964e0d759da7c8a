// Package extract holds the specialized data-type parsers: article,
// contact, resource, pricing, and tech-stack, grounded on spec §4.9 and
// the corresponding original_source/src/scraping/parser/*.py modules.
package extract

import (
	htmlmd "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/templates"
)

// Article builds an article record via the active template's
// ExtractArticle, then supplements it with a rendered markdown body (a
// feature supplemented from the original's html-to-markdown usage — see
// SPEC_FULL.md). All fields but URL remain optional per §4.9.
func Article(tpl templates.Template, doc *htmlparse.Document, url string) model.Bag {
	bag := tpl.ExtractArticle(doc, url)
	if bag == nil {
		bag = model.Bag{"url": url}
	}

	converter := htmlmd.NewConverter("", true, nil)
	if markdown, err := converter.ConvertString(doc.RawHTML()); err == nil && markdown != "" {
		bag["content_markdown"] = markdown
	}
	return bag
}
