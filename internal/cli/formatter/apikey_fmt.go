package formatter

import (
	"fmt"

	"github.com/alexanderramin/revint/internal/dashboard"
)

// FormatAPIKeys renders the key table. cursor marks the selected row; -1
// for none.
func FormatAPIKeys(v *dashboard.APIKeysView, cursor int) string {
	rows := make([][]string, 0, len(v.Rows))
	for i, k := range v.Rows {
		status := StyleGreen.Render(k.Status)
		if k.Status != "Active" {
			status = Dim(k.Status)
		}
		rows = append(rows, []string{
			marker(i == cursor),
			fmt.Sprintf("%d", k.ID),
			k.Name,
			k.Created,
			k.LastUsed,
			k.Expires,
			status,
		})
	}
	return RenderTableOr([]string{"", "ID", "NAME", "CREATED", "LAST USED", "EXPIRES", "STATUS"}, rows, v.Placeholder)
}

// FormatGeneratedKey renders a freshly generated secret. It is shown once.
func FormatGeneratedKey(v *dashboard.GeneratedKeyView) string {
	content := fmt.Sprintf("%s\n\n%s\n\n%s %s",
		StyleYellow.Render(v.Key),
		Dim("Copy this key now. It will not be shown again."),
		Dim("Expires:"), v.Expires,
	)
	return RenderBox("API key "+v.Name, content)
}
