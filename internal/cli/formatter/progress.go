package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders a department's share of total leakage as a bar like
// [████░░░░]  45%. Larger shares are hotter: red above 66%, yellow above 33%.
func RenderShare(share float64, width int) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(share * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if share > 0.66 {
		style = StyleRed
	} else if share > 0.33 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), share*100)
}
