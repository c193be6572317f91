package cli

import (
	"context"

	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App  *App
	Ctrl *dashboard.Controller
	Ctx  context.Context

	// Header identity; starts as LoadingUserInfo.
	User dashboard.UserInfoView

	// Anomaly filter shared by the anomalies tab and post-resolve reloads.
	Filter domain.AnomalyFilter

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (3 lines: title, tab bar, separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
