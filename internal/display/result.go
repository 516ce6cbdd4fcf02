package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// RenderResult formats an estimate for the terminal. Temperatures are shown
// in unit. A zero start omits the completion time.
func RenderResult(in domain.Inputs, res domain.Result, start time.Time, unit units.Unit) string {
	var b strings.Builder

	temp := units.RoundTemperature(units.FromFahrenheit(in.TemperatureF, unit))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %s%s, %s%% starter, %s rise",
		formatNumber(temp), unit.Symbol(), formatNumber(in.StarterPct), domain.SnapRise(in.TargetRise))))
	b.WriteByte('\n')

	b.WriteString("  " + headlineStyle.Render(units.FormatTime(res.EstimatedTime)))
	b.WriteByte('\n')
	b.WriteString(primaryStyle.Render(fmt.Sprintf("  Range: %s to %s",
		units.FormatTime(res.MinTime), units.FormatTime(res.MaxTime))))
	b.WriteByte('\n')

	if !start.IsZero() {
		done := units.CompletionTime(start, res.EstimatedTime)
		b.WriteString(infoStyle.Render(fmt.Sprintf("  Done around %s (%s)",
			units.FormatTimeOfDay(done), units.FormatDate(done))))
		b.WriteByte('\n')
	}

	for _, w := range res.Warnings {
		b.WriteString(warningStyle.Render("  ! " + w))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderTable lays out the measured hours for one rise column: starter
// rows by temperature columns.
func RenderTable(points []domain.AnchorPoint, rise domain.RiseTarget, unit units.Unit) string {
	headers := []string{"Starter"}
	for _, f := range domain.TemperaturePoints {
		temp := units.RoundTemperature(units.FromFahrenheit(f, unit))
		headers = append(headers, formatNumber(temp)+unit.Symbol())
	}

	byStarter := make(map[float64][]string)
	for _, p := range points {
		if p.Rise != rise {
			continue
		}
		byStarter[p.Starter] = append(byStarter[p.Starter], formatNumber(p.Hours)+"h")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(sepStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return labelStyle.Bold(true).Padding(0, 1)
			case col == 0:
				return labelStyle.Padding(0, 1)
			default:
				return primaryStyle.Padding(0, 1).Align(lipgloss.Right)
			}
		})

	for _, s := range domain.StarterPoints {
		t.Row(append([]string{formatNumber(s) + "%"}, byStarter[s]...)...)
	}

	title := headlineStyle.Render(fmt.Sprintf("Bulk fermentation hours, %s rise", rise))
	return title + "\n" + t.Render() + "\n"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
