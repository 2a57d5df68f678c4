package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/progression"
)

// Empty-neighbourhood messages.
const (
	EmptyForward  = "No further progression routes from this course"
	EmptyBackward = "No prerequisite courses found"
)

// EmptyMessage returns the message shown when a course has no neighbours
// in direction dir.
func EmptyMessage(dir progression.Direction) string {
	if dir == progression.Backward {
		return EmptyBackward
	}
	return EmptyForward
}

var (
	arrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Italic(true)
)

// Draw renders the scene on the viewport's grid. Forward scenes put the
// selected course on top with its targets below; backward scenes put the
// sources on top with the selected course below.
func Draw(scene Scene, vp Viewport) string {
	central, ok := scene.Central()
	if !ok {
		return ""
	}

	centre := lipgloss.PlaceHorizontal(vp.Width, lipgloss.Center, drawNode(central, vp.BoxWidth))
	if e, ok := scene.EdgeTo(central.ID); ok && e.From == e.To {
		centre += "\n" + lipgloss.PlaceHorizontal(vp.Width, lipgloss.Center,
			labelStyle.Render("↻ "+truncate(e.Label, vp.Width-2)))
	}

	neighbours := scene.Neighbours()
	if len(neighbours) == 0 {
		msg := labelStyle.Render(EmptyMessage(scene.Direction))
		return centre + "\n\n" + lipgloss.PlaceHorizontal(vp.Width, lipgloss.Center, msg)
	}

	rows := make([][]string, vp.Rows)
	for _, n := range neighbours {
		row, _ := vp.Position(n.Slot)
		label := FallbackEdgeLabel
		if e, ok := scene.EdgeTo(n.ID); ok {
			label = e.Label
		}
		arrow := arrowStyle.Render("▼") + " " + labelStyle.Render(truncate(label, vp.BoxWidth-2))
		arrow = lipgloss.PlaceHorizontal(vp.BoxWidth, lipgloss.Center, arrow)

		var cell string
		if scene.Direction == progression.Backward {
			cell = lipgloss.JoinVertical(lipgloss.Left, drawNode(n, vp.BoxWidth), arrow)
		} else {
			cell = lipgloss.JoinVertical(lipgloss.Left, arrow, drawNode(n, vp.BoxWidth))
		}
		rows[row] = append(rows[row], cell)
	}

	gap := strings.Repeat(" ", BoxGap)
	lines := make([]string, 0, len(rows))
	for _, cells := range rows {
		joined := make([]string, 0, 2*len(cells))
		for i, c := range cells {
			if i > 0 {
				joined = append(joined, gap)
			}
			joined = append(joined, c)
		}
		lines = append(lines, lipgloss.PlaceHorizontal(vp.Width, lipgloss.Center,
			lipgloss.JoinHorizontal(lipgloss.Top, joined...)))
	}
	grid := strings.Join(lines, "\n")

	if scene.Direction == progression.Backward {
		return grid + "\n" + centre
	}
	return centre + "\n" + grid
}

func drawNode(n Node, width int) string {
	inner := max(width-2, 1)
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(n.Color))
	if n.Central {
		style = style.
			Border(lipgloss.ThickBorder()).
			Bold(true).
			Foreground(lipgloss.Color(n.Color))
	}
	body := truncate(n.Label, inner) + "\n" +
		truncate(fmt.Sprintf("L%d · %s", n.Level, n.Provider), inner)
	return style.Render(body)
}

// truncate shortens s to at most width runes, ending in an ellipsis when
// cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
