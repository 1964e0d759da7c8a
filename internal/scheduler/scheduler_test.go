package scheduler

import (
	"testing"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDataTypeStrings(t *testing.T) {
	in := []model.DataType{model.DataTypeBlogURL, model.DataTypePricing}
	assert.Equal(t, []string{"blog_url", "pricing"}, dataTypeStrings(in))
}

func TestDataTypeStringsEmpty(t *testing.T) {
	assert.Equal(t, []string{}, dataTypeStrings(nil))
}

func TestTickDefaultsMatchSpecCadence(t *testing.T) {
	assert.Equal(t, 60, int(TrackedDomainTick.Minutes()))
	assert.Equal(t, 15, int(TrackedSearchTick.Minutes()))
}
