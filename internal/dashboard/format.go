package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// WholeDollars renders a rounded, comma-grouped amount: 1234.5 → "$1,235".
func WholeDollars(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// Dollars renders an amount with cents: 12.5 → "$12.50".
func Dollars(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// DateOr formats t as a short calendar date, or returns fallback when t is
// unset.
func DateOr(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.Format("Jan 2, 2006")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
