package orchestrator

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGroupByDataType(t *testing.T) {
	classified := []model.ClassifiedURL{
		{URL: "https://acme.com/blog/a", DataType: model.DataTypeBlogURL},
		{URL: "https://acme.com/blog/b", DataType: model.DataTypeBlogURL},
		{URL: "https://acme.com/contact", DataType: model.DataTypeContact},
	}

	grouped := groupByDataType(classified)

	assert.ElementsMatch(t, []string{"https://acme.com/blog/a", "https://acme.com/blog/b"}, grouped[model.DataTypeBlogURL])
	assert.Equal(t, []string{"https://acme.com/contact"}, grouped[model.DataTypeContact])
}

func TestHomepageURL(t *testing.T) {
	assert.Equal(t, "https://acme.com/", homepageURL("acme.com"))
}

func TestHomepageOrReturnsURLsWhenPresent(t *testing.T) {
	urls := []string{"https://acme.com/a"}
	assert.Equal(t, urls, homepageOr(urls, "acme.com"))
}

func TestHomepageOrFallsBackToHomepage(t *testing.T) {
	assert.Equal(t, []string{"https://acme.com/"}, homepageOr(nil, "acme.com"))
}
