package analysis

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency formats v as whole dollars with grouped thousands, e.g. "$42,000".
func Currency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// Percent formats v with one decimal place, e.g. "16.7%".
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Count formats a possibly fractional count: whole values print without a
// decimal, everything else with one.
func Count(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.1f", v)
}

// Number formats an entered value exactly, with grouped thousands and the
// shortest decimal that round-trips, e.g. "52.55" or "1,234.5".
func Number(v float64) string {
	digits := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	out := printer.Sprintf("%d", n)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 {
		out = "-" + out
	}
	return out
}
