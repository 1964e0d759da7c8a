package opsapi

import "github.com/Champ-Deep/LakeStream/internal/model"

// manualScrapeInput is the ops-only manual enqueue body, mirroring
// spec §6's ScrapeJobInput contract for the pieces this surface covers.
type manualScrapeInput struct {
	Domain     string   `json:"domain"`
	TemplateID string   `json:"template_id"`
	MaxPages   int      `json:"max_pages"`
	DataTypes  []string `json:"data_types"`
	Priority   int      `json:"priority"`
}

func (in *manualScrapeInput) applyDefaults() {
	if in.TemplateID == "" {
		in.TemplateID = "auto"
	}
	if in.MaxPages <= 0 {
		in.MaxPages = 100
	}
	if in.MaxPages > 500 {
		in.MaxPages = 500
	}
	if in.Priority <= 0 {
		in.Priority = 5
	}
	if len(in.DataTypes) == 0 {
		in.DataTypes = []string{string(model.DataTypeBlogURL), string(model.DataTypeArticle)}
	}
}

func (in *manualScrapeInput) parsedDataTypes() []model.DataType {
	out := make([]model.DataType, len(in.DataTypes))
	for i, dt := range in.DataTypes {
		out[i] = model.DataType(dt)
	}
	return out
}
