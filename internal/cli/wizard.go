package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

// revintHuhTheme returns a huh theme using the formatter palette.
func revintHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// parsePositiveInt parses s as a positive integer, returning fallback if s is
// empty, non-numeric, or non-positive. Used after huh validation has already
// accepted the string.
func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(revintHuhTheme()).WithShowHelp(false)
}

// filterInput holds the raw form values for an anomaly filter.
type filterInput struct {
	Department string
	Priority   string
	DateFrom   string
	DateTo     string
	Limit      string
}

func newFilterInput(f domain.AnomalyFilter) *filterInput {
	in := &filterInput{
		Department: f.Department,
		Priority:   f.Priority,
		DateFrom:   f.DateFrom,
		DateTo:     f.DateTo,
	}
	if f.Limit > 0 {
		in.Limit = strconv.Itoa(f.Limit)
	}
	return in
}

func (in *filterInput) filter() domain.AnomalyFilter {
	return domain.AnomalyFilter{
		Department: strings.TrimSpace(in.Department),
		Priority:   in.Priority,
		DateFrom:   strings.TrimSpace(in.DateFrom),
		DateTo:     strings.TrimSpace(in.DateTo),
		Limit:      parsePositiveInt(in.Limit, 0),
	}
}

// wizardAnomalyFilter edits the anomaly filter in place.
func wizardAnomalyFilter(in *filterInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Department").
				Placeholder("any").
				Value(&in.Department),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Any", ""),
					huh.NewOption("High", string(domain.PriorityHigh)),
					huh.NewOption("Medium", string(domain.PriorityMedium)),
					huh.NewOption("Low", string(domain.PriorityLow)),
				).
				Value(&in.Priority),
			huh.NewInput().
				Title("From (YYYY-MM-DD)").
				Value(&in.DateFrom).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("To (YYYY-MM-DD)").
				Value(&in.DateTo).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Limit").
				Placeholder("all").
				Value(&in.Limit).
				Validate(validatePositiveInt),
		),
	).WithTheme(revintHuhTheme()).WithShowHelp(false)
}

// keyInput holds the raw form values for key generation.
type keyInput struct {
	Name        string
	ExpiresDays string
}

func newKeyInput() *keyInput {
	return &keyInput{ExpiresDays: strconv.Itoa(dashboard.DefaultKeyExpiryDays)}
}

func (in *keyInput) request() domain.APIKeyRequest {
	return domain.APIKeyRequest{
		Name:        strings.TrimSpace(in.Name),
		ExpiresDays: parsePositiveInt(in.ExpiresDays, dashboard.DefaultKeyExpiryDays),
	}
}

// wizardGenerateKey asks for a key name and lifetime.
func wizardGenerateKey(in *keyInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Key name").
				Placeholder("e.g. billing-export").
				Value(&in.Name).
				Validate(validateRequired("Key name")),
			huh.NewInput().
				Title("Expires in (days)").
				Value(&in.ExpiresDays).
				Validate(validatePositiveInt),
		),
	).WithTheme(revintHuhTheme()).WithShowHelp(false)
}

// loginInput holds credentials entered on the terminal.
type loginInput struct {
	Username string
	Password string
}

// wizardLogin asks for a username and a masked password.
func wizardLogin(in *loginInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&in.Username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&in.Password).
				Validate(validateRequired("Password")),
		),
	).WithTheme(revintHuhTheme()).WithShowHelp(false)
}
