package worker

import (
	"time"

	"github.com/google/uuid"

	"github.com/Champ-Deep/LakeStream/internal/model"
)

// newRecord stamps a fresh ScrapedData row for the current job/domain.
func newRecord(jobID, domain string, dataType model.DataType, url, title string, bag model.Bag) model.ScrapedData {
	if bag == nil {
		bag = model.Bag{}
	}
	return model.ScrapedData{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Domain:    domain,
		DataType:  dataType,
		URL:       url,
		Title:     title,
		Metadata:  bag,
		ScrapedAt: time.Now(),
	}
}

// flattenHeaders collapses net/http-style multi-value headers into a
// single string per key for substring-based tech-signature matching.
func flattenHeaders(headers map[string][]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
