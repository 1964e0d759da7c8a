package opsapi

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsEmptyInput(t *testing.T) {
	in := manualScrapeInput{Domain: "acme.com"}
	in.applyDefaults()

	assert.Equal(t, "auto", in.TemplateID)
	assert.Equal(t, 100, in.MaxPages)
	assert.Equal(t, 5, in.Priority)
	assert.Equal(t, []string{"blog_url", "article"}, in.DataTypes)
}

func TestApplyDefaultsClampsMaxPages(t *testing.T) {
	in := manualScrapeInput{MaxPages: 10000}
	in.applyDefaults()
	assert.Equal(t, 500, in.MaxPages)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	in := manualScrapeInput{TemplateID: "wordpress", MaxPages: 20, Priority: 1, DataTypes: []string{"pricing"}}
	in.applyDefaults()

	assert.Equal(t, "wordpress", in.TemplateID)
	assert.Equal(t, 20, in.MaxPages)
	assert.Equal(t, 1, in.Priority)
	assert.Equal(t, []string{"pricing"}, in.DataTypes)
}

func TestParsedDataTypes(t *testing.T) {
	in := manualScrapeInput{DataTypes: []string{"article", "contact"}}
	assert.Equal(t, []model.DataType{model.DataTypeArticle, model.DataTypeContact}, in.parsedDataTypes())
}
