package classifier

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMatchesExpectedDataType(t *testing.T) {
	cases := map[string]model.DataType{
		"https://acme.com/pricing":          model.DataTypePricing,
		"https://acme.com/plans":            model.DataTypePricing,
		"https://acme.com/contact":          model.DataTypeContact,
		"https://acme.com/careers":          model.DataTypeContact,
		"https://acme.com/about-us":         model.DataTypeContact,
		"https://acme.com/team":             model.DataTypeContact,
		"https://acme.com/resources":        model.DataTypeResource,
		"https://acme.com/case-studies":     model.DataTypeResource,
		"https://acme.com/blog/2026/01/x":   model.DataTypeBlogURL,
		"https://acme.com/insights":         model.DataTypeBlogURL,
	}
	for u, want := range cases {
		got, confidence := Classify(u)
		assert.Equal(t, want, got, u)
		assert.Equal(t, 0.8, confidence, u)
	}
}

func TestClassifyDefaultsToLowConfidenceBlogURL(t *testing.T) {
	got, confidence := Classify("https://acme.com/random-page")
	assert.Equal(t, model.DataTypeBlogURL, got)
	assert.Equal(t, 0.2, confidence)
}

func TestClassifyPricingTakesPrecedenceOverBlog(t *testing.T) {
	got, _ := Classify("https://acme.com/blog/pricing-guide")
	assert.Equal(t, model.DataTypePricing, got, "pricing rule is ordered before the blog rule and must win")
}
