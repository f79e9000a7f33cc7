package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pharmadex/labelseed/internal/core/domain"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("63"))

	reportLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Width(16)

	reportGoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	reportWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	reportBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// renderReport formats the final ingestion summary.
func renderReport(report *domain.RunReport) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(reportTitleStyle.Render("Seeding Summary"))
	b.WriteString("\n\n")

	stats := report.Stats
	row := func(label string, value string) {
		b.WriteString(reportLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Processed", fmt.Sprintf("%d", stats.Processed))
	row("Inserted", fmt.Sprintf("%d", stats.Inserted))
	row("Updated", fmt.Sprintf("%d", stats.Updated))
	row("Skipped", fmt.Sprintf("%d", stats.Skipped))
	row("Errors", fmt.Sprintf("%d", stats.Errors))
	row("Elapsed", report.Elapsed.Round(10*time.Millisecond).String())
	if rate := report.Rate(); rate > 0 {
		row("Rate", fmt.Sprintf("%.1f records/s", rate))
	}

	b.WriteString("\n")
	row("Success rate", scoreStyle(stats.SuccessRate()).Render(fmt.Sprintf("%.1f%%", stats.SuccessRate())))
	row("Quality score", scoreStyle(stats.QualityScore()).Render(fmt.Sprintf("%.1f", stats.QualityScore())))

	if rec := recommendation(stats); rec != "" {
		b.WriteString("\n")
		b.WriteString(rec)
		b.WriteString("\n")
	}

	return b.String()
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 95:
		return reportGoodStyle
	case score >= 80:
		return reportWarnStyle
	default:
		return reportBadStyle
	}
}

func recommendation(stats domain.LoadStats) string {
	switch {
	case stats.Processed == 0 && stats.Errors == 0 && stats.Skipped == 0:
		return "No records were loaded. Check that the label file holds admissible documents."
	case stats.QualityScore() < 80:
		return "High error rate. Rerun with --verbose to inspect the failing records."
	case stats.Skipped > 0:
		return fmt.Sprintf("%d records were skipped for failing validation. Rerun with --verbose for details.", stats.Skipped)
	default:
		return ""
	}
}
