package cli

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Veraticus/bnb-insights/internal/query"
)

var printer = message.NewPrinter(language.English)

// Count renders an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Money renders a nightly price in dollars.
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Km renders a distance.
func Km(v float64) string {
	return printer.Sprintf("%.2f km", v)
}

// Days renders a day count.
func Days(v float64) string {
	return printer.Sprintf("%.0f days", v)
}

// Percent renders a value already scaled to 0-100.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Number renders a plain figure with one decimal.
func Number(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// MetricValue renders a metric according to its unit.
func MetricValue(m query.Metric) string {
	switch m.Unit {
	case query.UnitCurrency:
		return Money(m.Value)
	case query.UnitDays:
		return Days(m.Value)
	case query.UnitPercent:
		return Percent(m.Value)
	case query.UnitScore:
		return printer.Sprintf("%.2f", m.Value)
	default:
		return Number(m.Value)
	}
}
