package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/revint/internal/dashboard"
)

// FormatOverview renders the summary cards, the department breakdown and
// the recent anomalies table. cursor marks the selected recent anomaly; -1
// for none.
func FormatOverview(v *dashboard.OverviewView, cursor int) string {
	var b strings.Builder

	cards := []string{
		card("Total Leakage", StyleRed.Render(v.TotalLeakage)),
		card("Anomalies", Bold(fmt.Sprintf("%d", v.TotalAnomalies))),
		card("High Priority", StyleRed.Render(fmt.Sprintf("%d", v.HighPriority))),
		card("Medium Priority", StyleYellow.Render(fmt.Sprintf("%d", v.MediumPriority))),
	}
	b.WriteString(strings.Join(cards, "   "))
	b.WriteString("\n\n")

	b.WriteString(Header("By Department") + "\n")
	if v.DepartmentsPlaceholder != "" {
		b.WriteString("  " + Dim(v.DepartmentsPlaceholder) + "\n")
	} else {
		rows := make([][]string, 0, len(v.Departments))
		for _, d := range v.Departments {
			rows = append(rows, []string{
				d.Name,
				fmt.Sprintf("%d", d.Count),
				d.Leakage,
				RenderShare(d.Share, 12),
			})
		}
		b.WriteString(RenderTable([]string{"DEPARTMENT", "COUNT", "LEAKAGE", "SHARE"}, rows))
	}
	b.WriteString("\n")

	b.WriteString(Header("Recent Anomalies") + "\n")
	b.WriteString(formatRecentAnomalies(v.Recent, v.RecentPlaceholder, cursor))
	return b.String()
}

func card(label, value string) string {
	return Dim(label+": ") + value
}

func formatRecentAnomalies(rows []dashboard.AnomalyRow, placeholder string, cursor int) string {
	headers := []string{"", "ID", "TYPE", "PRIORITY", "DEPARTMENT", "LEAKAGE", "DETECTED"}
	out := make([][]string, 0, len(rows))
	for i, a := range rows {
		out = append(out, []string{
			marker(i == cursor),
			fmt.Sprintf("%d", a.ID),
			a.Type,
			PriorityPill(a.Priority),
			a.Department,
			a.Leakage,
			a.Detected,
		})
	}
	return RenderTableOr(headers, out, placeholder)
}

func marker(selected bool) string {
	if selected {
		return StyleGreen.Render("▸")
	}
	return " "
}
