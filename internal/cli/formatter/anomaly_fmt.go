package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

// FormatAnomalyTable renders the full anomaly table. cursor marks the
// selected row; -1 for none.
func FormatAnomalyTable(rows []dashboard.AnomalyRow, placeholder string, cursor int) string {
	headers := []string{"", "ID", "TYPE", "PRIORITY", "DEPARTMENT", "LEAKAGE", "DESCRIPTION", "PATIENT", "DETECTED"}
	out := make([][]string, 0, len(rows))
	for i, a := range rows {
		out = append(out, []string{
			marker(i == cursor),
			fmt.Sprintf("%d", a.ID),
			a.Type,
			PriorityPill(a.Priority),
			a.Department,
			a.Leakage,
			Truncate(a.Description, 40),
			a.PatientID,
			a.Detected,
		})
	}
	return RenderTableOr(headers, out, placeholder)
}

// FormatFilter summarizes the active anomaly filter on one line.
func FormatFilter(f domain.AnomalyFilter) string {
	if f.IsZero() {
		return Dim("Filters: none")
	}
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("department", f.Department)
	add("priority", f.Priority)
	add("from", f.DateFrom)
	add("to", f.DateTo)
	if f.Limit > 0 {
		add("limit", fmt.Sprintf("%d", f.Limit))
	}
	return Dim("Filters: ") + strings.Join(parts, "  ")
}

// FormatAnomalies renders the anomalies tab body.
func FormatAnomalies(v *dashboard.AnomaliesView, cursor int) string {
	return FormatFilter(v.Filter) + "\n\n" + FormatAnomalyTable(v.Rows, v.Placeholder, cursor)
}

// FormatResolveOutcome renders the result of resolving an anomaly.
func FormatResolveOutcome(o *dashboard.ResolveOutcome) string {
	lines := []string{Success(o.Message)}
	for _, err := range o.RefreshErrors {
		lines = append(lines, StyleYellow.Render(err.Error()))
	}
	return Alert(lines...)
}
