package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/alexanderramin/revint/internal/domain"
)

// IngestView summarizes an upload.
type IngestView struct {
	Message string
	// Counters holds the scalar fields of the response, sorted by key.
	Counters [][2]string
}

// Ingest uploads patient and billing records. Patients must not be empty.
func (c *Controller) Ingest(ctx context.Context, patients, billing []map[string]any) (*IngestView, error) {
	if len(patients) == 0 {
		return nil, c.alert("ingest", "Failed to ingest data: ", errors.New("no patient records to upload"))
	}
	res, err := c.api.IngestData(ctx, patients, billing)
	if err != nil {
		return nil, c.alert("ingest", "Failed to ingest data: ", err)
	}
	c.log.Info().Int("patients", len(patients)).Int("billing", len(billing)).Msg("data ingested")
	return buildIngestView(res), nil
}

func buildIngestView(res *domain.IngestResult) *IngestView {
	v := &IngestView{Message: orDefault(res.Message, "Data ingested")}
	keys := make([]string, 0, len(res.Fields))
	for k := range res.Fields {
		if k != "message" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := res.Fields[k].(type) {
		case string, float64, bool:
			v.Counters = append(v.Counters, [2]string{k, fmt.Sprint(val)})
		}
	}
	return v
}
