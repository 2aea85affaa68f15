// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a USD amount rounded to cents with comma separators.
// e.g., 198000 -> "$198,000.00", -3300.5 -> "-$3,300.50"
func FormatMoney(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-" + FormatMoney(-v)
	}
	return "$" + groupFixed(d.StringFixed(2))
}

// FormatSavings formats a signed savings amount. Losses are shown as a
// parenthesised absolute value, e.g. "($39,600.00)".
func FormatSavings(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	if decimal.NewFromFloat(v).Round(2).IsNegative() {
		return "(" + FormatMoney(-v) + ")"
	}
	return FormatMoney(v)
}

// SavingsLabel returns "Savings" or "Loss" for a signed amount.
func SavingsLabel(v float64) string {
	if math.IsInf(v, -1) || (finite(v) && decimal.NewFromFloat(v).Round(2).IsNegative()) {
		return "Loss"
	}
	return "Savings"
}

// FormatRate formats a per-minute rate to four decimal places.
// e.g., 0.6875 -> "$0.6875/min"
func FormatRate(r float64) string {
	if !finite(r) {
		return "n/a"
	}
	return "$" + decimal.NewFromFloat(r).Round(4).StringFixed(4) + "/min"
}

// FormatBreakEven formats a possibly-undefined break-even rate.
func FormatBreakEven(b engine.BreakEven) string {
	if !b.Defined {
		return "n/a (no volume)"
	}
	return FormatRate(b.Rate)
}

// decimal.NewFromFloat panics on NaN and ±Inf.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatMinutes formats a minute volume rounded to whole minutes.
func FormatMinutes(m float64) string {
	return FormatNumber(int64(math.Round(m)))
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return groupDigits(strconv.FormatInt(n, 10))
}

func groupFixed(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok {
		return groupDigits(whole)
	}
	return groupDigits(whole) + "." + frac
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatSplit formats a modality split, e.g. "50.0% VRI / 50.0% phone".
func FormatSplit(s engine.Split) string {
	return fmt.Sprintf("%.1f%% VRI / %.1f%% phone", s.VRIPercent, s.PhonePercent)
}

// FormatMode describes a rate mode for display.
func FormatMode(m engine.RateMode) string {
	switch v := m.(type) {
	case engine.Blended:
		return "blended " + FormatRate(v.Rate)
	case engine.Separate:
		return fmt.Sprintf("VRI %s, phone %s", FormatRate(v.VRI), FormatRate(v.Phone))
	}
	return "none"
}
