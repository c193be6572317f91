package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/revint/internal/dashboard"
)

// FormatSettings renders the account and plan panel.
func FormatSettings(v *dashboard.SettingsView) string {
	var b strings.Builder
	b.WriteString(Header("Account") + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Email:   "), v.Email))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Name:    "), v.Name))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Role:    "), v.Role))
	b.WriteString(fmt.Sprintf("%s %s\n\n", Dim("Hospital:"), v.Hospital))
	b.WriteString(Header("Plan") + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Current: "), PlanBadge(v.PlanBadge)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Features:"), v.Features))
	return b.String()
}

// FormatUpgrade renders the upgrade offer.
func FormatUpgrade(v dashboard.UpgradeView) string {
	lines := v.Lines()
	if v.AtTop {
		return Alert(lines...)
	}
	return RenderBox("", Bold(lines[0])+"\n"+strings.Join(lines[1:], "\n"))
}

// FormatUserInfo renders the identity shown in the header.
func FormatUserInfo(v dashboard.UserInfoView) string {
	name := Bold(v.DisplayName)
	if v.Degraded {
		name = Dim(v.DisplayName)
	}
	return name + " " + PlanBadge(v.PlanBadge)
}

// FormatIngest renders an ingestion summary.
func FormatIngest(v *dashboard.IngestView) string {
	lines := []string{Success(v.Message)}
	for _, kv := range v.Counters {
		lines = append(lines, Dim(kv[0]+":")+" "+kv[1])
	}
	return Alert(lines...)
}

// FormatFailure renders a controller failure the way its presentation asks.
func FormatFailure(f *dashboard.Failure) string {
	if f.Presentation == dashboard.Inline {
		return ErrorPanel(f.Message, f.Hint, f.Retry)
	}
	return Alert(ErrorText(f.Message))
}
