package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/query"
	"github.com/Veraticus/bnb-insights/internal/tui/themes"
)

// timelineMonths is how many trailing months the review timeline shows.
const timelineMonths = 12

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.theme.Title.Render(cli.HomeIcon + " NYC Airbnb Insights")
	status := m.theme.Subtitle.Render(fmt.Sprintf("Showing %s of %s listings",
		cli.Count(len(m.selection)), cli.Count(len(m.base))))

	controls := m.theme.RoundedBox.Render(m.renderControls())
	results := m.renderResults()

	var body string
	if m.width < 100 {
		body = lipgloss.JoinVertical(lipgloss.Left, controls, results)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, controls, "  ", results)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		status,
		"",
		body,
		"",
		m.help.View(m.keymap),
	)
}

// renderControls renders the filter panel with the focused row highlighted.
func (m Model) renderControls() string {
	lines := []string{m.theme.Bold.Render("Filters")}
	var section controlKind = -1

	for i, c := range m.controls {
		if c.kind != section && (c.kind == controlBorough || c.kind == controlRoomType) {
			title := "Boroughs"
			if c.kind == controlRoomType {
				title = "Room types"
			}
			lines = append(lines, "", m.theme.Bold.Render(title))
		}
		section = c.kind

		line := m.renderControl(c)
		if i == m.focus {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderControl(c control) string {
	switch c.kind {
	case controlStakeholder:
		return "Stakeholder   ‹ " + m.Stakeholder().Title() + " ›"
	case controlDimension:
		return "Group by      ‹ " + m.Dimension().Title() + " ›"
	case controlPriceMin:
		return "Min price     ‹ " + cli.Money(m.priceMin) + " ›"
	case controlPriceMax:
		return "Max price     ‹ " + cli.Money(m.priceMax) + " ›"
	case controlMinReviews:
		return "Min reviews   ‹ " + cli.Count(m.minReviews) + " ›"
	case controlBorough:
		return checkbox(m.theme, m.boroughs[c.value]) + " " + themes.GetBoroughIcon(c.value) + " " + c.value
	case controlRoomType:
		return checkbox(m.theme, m.roomTypes[c.value]) + " " + c.value
	default:
		return ""
	}
}

func checkbox(theme themes.Theme, checked bool) string {
	if checked {
		return theme.Checked.Render("[x]")
	}
	return theme.Unchecked.Render("[ ]")
}

// renderResults renders metrics, the grouped summary and the stakeholder
// insight, or a warning when nothing matches.
func (m Model) renderResults() string {
	if m.err != nil {
		return m.theme.StatusWarning.Render(cli.ErrorIcon + " " + m.err.Error())
	}
	if len(m.selection) == 0 {
		return m.theme.RoundedBox.
			BorderForeground(m.theme.Warning).
			Render(m.theme.StatusWarning.Render(cli.WarningIcon + " " + cli.EmptySelectionMessage))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		cli.RenderOverview(m.overview),
		cli.RenderSummary(m.summary),
		cli.RenderInsight(m.insight),
		m.renderTimeline(),
	)
}

// renderTimeline draws last-review counts for the trailing months as bars.
func (m Model) renderTimeline() string {
	timeline := query.ReviewTimeline(m.selection)
	if len(timeline) == 0 {
		return ""
	}
	if len(timeline) > timelineMonths {
		timeline = timeline[len(timeline)-timelineMonths:]
	}

	peak := 0
	for _, mc := range timeline {
		peak = max(peak, mc.Count)
	}

	const width = 30
	lines := []string{m.theme.Bold.Render("Last reviews by month")}
	bar := lipgloss.NewStyle().Foreground(m.theme.Primary)
	for _, mc := range timeline {
		n := max(1, mc.Count*width/peak)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			mc.Month.Format("2006-01"), bar.Render(strings.Repeat("█", n)), cli.Count(mc.Count)))
	}
	return strings.Join(lines, "\n")
}
