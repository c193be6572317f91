package dashboard

import (
	"context"
	"fmt"

	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/validation"
)

type AnomaliesView struct {
	Filter      domain.AnomalyFilter
	Rows        []AnomalyRow
	Placeholder string
}

// LoadAnomalies validates f and fetches the matching anomalies. Failures,
// including invalid filters, are Alerts.
func (c *Controller) LoadAnomalies(ctx context.Context, f domain.AnomalyFilter) (*AnomaliesView, error) {
	if err := validation.Struct(f); err != nil {
		return nil, c.alert("anomalies", "Failed to load anomalies: ", err)
	}
	list, err := c.api.Anomalies(ctx, f)
	if err != nil {
		return nil, c.alert("anomalies", "Failed to load anomalies: ", err)
	}
	return buildAnomaliesView(f, list), nil
}

func buildAnomaliesView(f domain.AnomalyFilter, list []domain.Anomaly) *AnomaliesView {
	v := &AnomaliesView{Filter: f}
	for _, a := range list {
		v.Rows = append(v.Rows, anomalyRow(a, "unknown"))
	}
	if len(v.Rows) == 0 {
		v.Placeholder = "No anomalies found"
	}
	return v
}

// ResolveRequest identifies the anomaly to resolve and the anomaly filter
// to refresh with afterwards.
type ResolveRequest struct {
	AnomalyID int64
	Notes     string
	Filter    domain.AnomalyFilter
}

// ResolveOutcome carries the confirmation message and the refreshed views.
// A refresh failure is reported in RefreshErrors and does not make the
// resolve itself fail.
type ResolveOutcome struct {
	Message       string
	Resolution    *domain.Resolution
	Overview      *OverviewView
	Anomalies     *AnomaliesView
	RefreshErrors []error
}

// ResolvePrompt is asked before an anomaly is resolved.
const ResolvePrompt = "Mark this anomaly as resolved?"

// ResolveAnomaly asks for confirmation, sends a single resolve request and
// then reloads the overview and anomaly list.
func (c *Controller) ResolveAnomaly(ctx context.Context, req ResolveRequest, confirmer Confirmer) (*ResolveOutcome, error) {
	if err := c.confirm(confirmer, ResolvePrompt); err != nil {
		return nil, err
	}

	res, err := c.api.ResolveAnomaly(ctx, req.AnomalyID, "resolve", req.Notes)
	if err != nil {
		return nil, c.alert("resolve", "Failed to resolve anomaly: ", err)
	}
	c.log.Info().Int64("anomaly_id", req.AnomalyID).Msg("anomaly resolved")

	out := &ResolveOutcome{Message: "Anomaly resolved successfully", Resolution: res}
	if ov, err := c.LoadOverview(ctx); err != nil {
		out.RefreshErrors = append(out.RefreshErrors, fmt.Errorf("refreshing overview: %w", err))
	} else {
		out.Overview = ov
	}
	if av, err := c.LoadAnomalies(ctx, req.Filter); err != nil {
		out.RefreshErrors = append(out.RefreshErrors, fmt.Errorf("refreshing anomalies: %w", err))
	} else {
		out.Anomalies = av
	}
	return out, nil
}
