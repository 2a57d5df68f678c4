package browse

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/ui/theme"
)

type rowKind int

const (
	rowLevelHeader rowKind = iota
	rowCourse
)

type row struct {
	kind   rowKind
	level  int
	result search.Result
}

// buildRows groups an unranked list under level headers. A ranked list
// keeps its order and has no headers.
func buildRows(results []search.Result, ranked bool) []row {
	rows := make([]row, 0, len(results)+8)
	lastLevel := -1
	for _, r := range results {
		if !ranked && r.Course.Level != lastLevel {
			rows = append(rows, row{kind: rowLevelHeader, level: r.Course.Level})
			lastLevel = r.Course.Level
		}
		rows = append(rows, row{kind: rowCourse, level: r.Course.Level, result: r})
	}
	return rows
}

func renderLevelHeader(level, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.LevelColor(level)).
		Bold(true).
		Width(width).
		PaddingLeft(2).
		Render(fmt.Sprintf("LEVEL %d", level))
}

func renderCourseRow(r row, selected, saved, ranked bool, width int) string {
	c := r.result.Course

	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	heart := " "
	if saved {
		heart = theme.Saved.Render("♥")
	}
	badge := lipgloss.NewStyle().Foreground(theme.LevelColor(c.Level)).Render(fmt.Sprintf("L%d", c.Level))

	score := ""
	if ranked {
		score = fmt.Sprintf("%5.2f", r.result.Score)
	}

	nameWidth := max(width-4-2-4-lipgloss.Width(score)-2, 10)
	providerWidth := nameWidth / 3
	nameWidth -= providerWidth

	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}

	line := fmt.Sprintf("  %s%s %s %s %s",
		cursor,
		heart,
		badge,
		nameStyle.Render(pad(truncate(c.Name, nameWidth), nameWidth)),
		theme.Dim.Render(pad(truncate(c.Provider, providerWidth), providerWidth)),
	)
	if ranked {
		line += " " + lipgloss.NewStyle().Foreground(theme.Accent).Render(score)
	}
	return line
}

func renderReasons(reasons []string, width int) string {
	if len(reasons) == 0 {
		return ""
	}
	return theme.Dim.Render("         " + truncate(strings.Join(reasons, " · "), width-10))
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
