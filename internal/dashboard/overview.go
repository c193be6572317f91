package dashboard

import (
	"context"

	"github.com/alexanderramin/revint/internal/domain"
)

type DepartmentRow struct {
	Name    string
	Count   int
	Leakage string
	// Share is this department's fraction of the summed department leakage.
	Share float64
}

// AnomalyRow is one table row. Strings are display-ready.
type AnomalyRow struct {
	ID          int64
	Type        string
	Priority    domain.Priority
	Department  string
	Leakage     string
	Description string
	PatientID   string
	Detected    string
}

type OverviewView struct {
	TotalLeakage   string
	TotalAnomalies int
	HighPriority   int
	MediumPriority int
	Departments    []DepartmentRow
	// DepartmentsPlaceholder is set instead of rows when there are none.
	DepartmentsPlaceholder string
	Recent                 []AnomalyRow
	RecentPlaceholder      string
}

// LoadOverview fetches the summary for the configured day window.
// Failures are Inline with a retry control.
func (c *Controller) LoadOverview(ctx context.Context) (*OverviewView, error) {
	ov, err := c.api.Overview(ctx, c.opts.OverviewDays)
	if err != nil {
		f := c.inline("overview", "Error: ", err)
		f.Retry = true
		return nil, f
	}
	return BuildOverviewView(ov), nil
}

func BuildOverviewView(ov *domain.Overview) *OverviewView {
	v := &OverviewView{
		TotalLeakage:   WholeDollars(ov.TotalLeakage),
		TotalAnomalies: ov.TotalAnomalies,
		HighPriority:   ov.HighPriorityCount,
		MediumPriority: ov.MediumPriorityCount,
	}

	var sum float64
	for _, d := range ov.Departments {
		sum += d.Leakage
	}
	for _, d := range ov.Departments {
		row := DepartmentRow{
			Name:    d.Name,
			Count:   d.Count,
			Leakage: Dollars(d.Leakage),
		}
		if sum > 0 {
			row.Share = d.Leakage / sum
		}
		v.Departments = append(v.Departments, row)
	}
	if len(v.Departments) == 0 {
		v.DepartmentsPlaceholder = "No department data available"
	}

	for _, a := range ov.RecentAnomalies {
		v.Recent = append(v.Recent, anomalyRow(a, "N/A"))
	}
	if len(v.Recent) == 0 {
		v.RecentPlaceholder = "No recent anomalies"
	}
	return v
}

func anomalyRow(a domain.Anomaly, typeFallback string) AnomalyRow {
	return AnomalyRow{
		ID:          a.ID,
		Type:        orDefault(a.Type, typeFallback),
		Priority:    a.Priority,
		Department:  orDefault(a.Department, "N/A"),
		Leakage:     Dollars(a.Leakage),
		Description: orDefault(a.Description, "N/A"),
		PatientID:   orDefault(a.PatientID, "N/A"),
		Detected:    DateOr(a.DetectedAt, "N/A"),
	}
}
