package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"

	"github.com/martin2250/hit-sim/internal/stats"
	"github.com/martin2250/hit-sim/internal/sweep"
)

// SceneTable renders one row per scene with its key and summary figures.
func SceneTable(scenes []*sweep.Scene) string {
	rows := make([][]string, 0, len(scenes))
	for _, sc := range scenes {
		row := []string{sc.Name, sc.Key().Short()}
		if sc.Result == nil {
			rows = append(rows, append(row, "-", "-", "-", "-"))
			continue
		}
		s, err := stats.Summarize(sc.Result)
		valid := fmt.Sprintf("%d/%d", s.ValidRows, s.Rows)
		if err != nil {
			rows = append(rows, append(row, valid, "-", "-", "-"))
			continue
		}
		rows = append(rows, append(row,
			valid,
			fmt.Sprintf("%.2f ± %.2f", s.EnergyMean, s.EnergyStd),
			fmt.Sprintf("%.2f .. %.2f", s.EnergyLo, s.EnergyHi),
			fmt.Sprintf("%.2f .. %.2f", s.AngleLo, s.AngleHi),
		))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Subtle).
		Headers("SCENE", "KEY", "VALID", "ENERGY (MeV)", "E P1..MAX", "ANGLE P0.5..P99.5 (mrad)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
	return t.String()
}

// Histogram plots the counts of h as an ASCII graph.
func Histogram(h stats.Histogram, caption string) string {
	if len(h.Counts) == 0 {
		return ""
	}
	graph := asciigraph.Plot(h.Floats(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s [%.3g .. %.3g]", caption, h.Lo, h.Hi)),
	)
	return graph
}

// SummaryPanel renders the figures of one summary in a bordered panel.
func SummaryPanel(title string, s stats.Summary) string {
	lines := []string{
		TitleStyle.Render(title),
		Metric("rows", fmt.Sprintf("%d (%d valid)", s.Rows, s.ValidRows)),
		Metric("energy", fmt.Sprintf("%.3f ± %.3f MeV", s.EnergyMean, s.EnergyStd)),
		Metric("energy p1..max", fmt.Sprintf("%.3f .. %.3f MeV", s.EnergyLo, s.EnergyHi)),
		Metric("angle", fmt.Sprintf("%.3f ± %.3f mrad", s.AngleMean, s.AngleStd)),
		Metric("angle p0.5..99.5", fmt.Sprintf("%.3f .. %.3f mrad", s.AngleLo, s.AngleHi)),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}
