package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/revint/internal/dashboard"
)

// FormatPatient renders a patient detail, or the search prompt.
func FormatPatient(v *dashboard.PatientView, cursor int) string {
	if len(v.Prompt) > 0 {
		lines := make([]string, len(v.Prompt))
		for i, l := range v.Prompt {
			if i == 0 {
				lines[i] = l
			} else {
				lines[i] = Dim(l)
			}
		}
		return "\n  " + strings.Join(lines, "\n  ") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header(v.Name) + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Patient ID:   "), v.PatientID))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Visit ID:     "), v.VisitID))
	b.WriteString(fmt.Sprintf("%s %s\n\n", Dim("Total Leakage:"), StyleRed.Render(v.TotalLeakage)))
	b.WriteString(FormatAnomalyTable(v.Rows, v.Placeholder, cursor))
	return b.String()
}

// FormatPatientList renders the roster. cursor marks the selected row; -1
// for none.
func FormatPatientList(v *dashboard.PatientListView, cursor int) string {
	var b strings.Builder
	if v.Title != "" {
		b.WriteString(Header(v.Title) + "\n")
	}
	rows := make([][]string, 0, len(v.Rows))
	for i, p := range v.Rows {
		rows = append(rows, []string{
			marker(i == cursor),
			p.PatientID,
			p.Name,
			fmt.Sprintf("%d", p.AnomalyCount),
			p.TotalLeakage,
		})
	}
	b.WriteString(RenderTableOr([]string{"", "PATIENT ID", "NAME", "ANOMALIES", "TOTAL LEAKAGE"}, rows, v.Placeholder))
	return b.String()
}
