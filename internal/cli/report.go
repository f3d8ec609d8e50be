package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/query"
)

// EmptySelectionMessage is shown when the filters match no listing.
const EmptySelectionMessage = "No listings match the current filters. Widen the price range or select more boroughs and room types."

// Report is everything printed for one filtered selection. Insight and Run
// are optional.
type Report struct {
	Insight  *query.Insight
	Run      *model.Run
	Filter   query.FilterSpec
	Summary  query.Summary
	Overview query.Overview
}

// WriteReport renders r to w.
func WriteReport(w io.Writer, r Report) error {
	sections := []string{
		FormatTitle("NYC Airbnb Listings"),
		SubtitleStyle.Render("Filters: " + DescribeFilter(r.Filter)),
	}

	if r.Overview.Total == 0 {
		sections = append(sections, FormatWarning(EmptySelectionMessage))
	} else {
		sections = append(sections,
			RenderOverview(r.Overview),
			RenderSummary(r.Summary),
		)
		if r.Insight != nil {
			sections = append(sections, RenderInsight(*r.Insight))
		}
	}

	if r.Run != nil {
		sections = append(sections, RenderRun(*r.Run))
	}

	_, err := fmt.Fprintln(w, strings.Join(sections, "\n\n"))
	return err
}

// DescribeFilter renders the active filters on one line.
func DescribeFilter(spec query.FilterSpec) string {
	if spec.IsEmpty() {
		return "none"
	}

	var parts []string
	if len(spec.Boroughs) > 0 {
		parts = append(parts, "borough="+strings.Join(spec.Boroughs, ","))
	}
	if len(spec.RoomTypes) > 0 {
		parts = append(parts, "room_type="+strings.Join(spec.RoomTypes, ","))
	}
	switch {
	case spec.PriceMin != nil && spec.PriceMax != nil:
		parts = append(parts, fmt.Sprintf("price %s-%s", Money(*spec.PriceMin), Money(*spec.PriceMax)))
	case spec.PriceMin != nil:
		parts = append(parts, "price >= "+Money(*spec.PriceMin))
	case spec.PriceMax != nil:
		parts = append(parts, "price <= "+Money(*spec.PriceMax))
	}
	if spec.MinReviews != nil {
		parts = append(parts, "reviews >= "+Count(*spec.MinReviews))
	}
	return strings.Join(parts, "  ")
}

// RenderOverview renders the key metrics box.
func RenderOverview(o query.Overview) string {
	rows := [][2]string{
		{"Total listings", Count(o.Total)},
		{"Average price", Money(o.MeanPrice)},
		{"Price range", Money(o.MinPrice) + " - " + Money(o.MaxPrice)},
		{"Average reviews", Number(o.MeanReviews)},
		{"Average availability", Days(o.MeanAvailability)},
		{"Average distance", Km(o.MeanDistanceKm)},
	}
	return RenderBox(ChartIcon+" Key Metrics", keyValues(rows))
}

// RenderSummary renders a grouped summary as a table.
func RenderSummary(s query.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(s.Dimension.Title(), "Listings", "Mean price", "Mean distance").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})

	for _, g := range s.Groups {
		t.Row(g.Key, Count(g.Count), Money(g.MeanPrice), Km(g.MeanDistanceKm))
	}
	t.Row("All", Count(s.Total), Money(s.MeanPrice), Km(s.MeanDistanceKm))

	out := BoldStyle.Render("By "+s.Dimension.Title()) + "\n" + t.String()
	if s.Excluded > 0 {
		out += "\n" + SubtleStyle.Render(fmt.Sprintf("%s listings have no %s and are not shown.",
			Count(s.Excluded), strings.ToLower(s.Dimension.Title())))
	}
	return out
}

// RenderInsight renders one stakeholder's metrics and tips.
func RenderInsight(in query.Insight) string {
	title := PinIcon + " For " + in.Stakeholder.Title()
	if in.Empty {
		return RenderBox(title, FormatWarning(EmptySelectionMessage))
	}

	rows := make([][2]string, 0, len(in.Metrics))
	for _, m := range in.Metrics {
		value := MetricValue(m)
		if m.Subject != "" {
			value = m.Subject + " (" + value + ")"
		}
		rows = append(rows, [2]string{m.Label, value})
	}

	var b strings.Builder
	b.WriteString(keyValues(rows))
	if len(in.Tips) > 0 {
		b.WriteString("\n\n" + BoldStyle.Render("Tips"))
		for _, tip := range in.Tips {
			b.WriteString("\n  • " + tip)
		}
	}
	return RenderBox(title, b.String())
}

// RenderRun renders the load and cleaning audit of a run.
func RenderRun(run model.Run) string {
	rows := [][2]string{
		{"Source", run.Source},
		{"Rows read", Count(run.RowsRead)},
		{"Malformed rows", Count(run.MalformedRows)},
		{"Unparseable dates", Count(run.CoercedDates)},
		{"Invalid coordinates", Count(run.InvalidCoordinates)},
		{"Invalid prices", Count(run.InvalidPrices)},
		{"Invalid counts", Count(run.InvalidCounts)},
		{"Price outliers", fmt.Sprintf("%s (above %s)", Count(run.PriceOutliers), Money(run.PriceCeiling))},
		{"Filled host names", Count(run.FilledHostNames)},
		{"Filled names", Count(run.FilledNames)},
		{"Filled reviews/month", Count(run.FilledReviews)},
		{"Reviewed after as-of", Count(run.ReviewsAfterAsOf)},
		{"Listings kept", Count(run.RowsOut)},
	}
	return RenderBox(BroomIcon+" Data Quality", keyValues(rows))
}

func keyValues(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		label := SubtleStyle.Render(r[0] + ":" + strings.Repeat(" ", width-lipgloss.Width(r[0])))
		lines[i] = label + " " + r[1]
	}
	return strings.Join(lines, "\n")
}

// RenderFeatures renders the derived features of one listing.
func RenderFeatures(f model.Features) string {
	days := "never reviewed"
	if f.DaysSinceReview != nil {
		days = Days(float64(*f.DaysSinceReview))
	}
	rows := [][2]string{
		{"Host type", string(f.HostType)},
		{"Activity", string(f.ActivityStatus)},
		{"Days since review", days},
		{"Season", f.Season.String()},
		{"Distance", Km(f.DistanceKm)},
		{"Distance band", f.DistanceBucket},
	}
	return RenderBox(PinIcon+" Derived Features", keyValues(rows))
}

// RenderHistory renders recorded runs as a table, newest first.
func RenderHistory(runs []model.Run) string {
	if len(runs) == 0 {
		return FormatInfo("No runs recorded yet.")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers("Started", "Run", "Source", "Read", "Dropped", "Kept", "Took").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
	for i := range runs {
		r := &runs[i]
		t.Row(
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			shortID(r.ID),
			r.Source,
			Count(r.RowsRead),
			Count(r.Dropped()),
			Count(r.RowsOut),
			r.Duration().Round(time.Millisecond).String(),
		)
	}
	return t.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
