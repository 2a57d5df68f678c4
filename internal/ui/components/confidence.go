package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/ui/theme"
)

// ConfidenceBar renders a 0-10 confidence score as a short bar followed
// by "7/10".
func ConfidenceBar(score float64, width int) string {
	width = max(width, 4)
	filled := min(max(int(score/10*float64(width)+0.5), 0), width)

	bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled))
	return bar + " " + theme.Dim.Render(catalog.FormatConfidence(score))
}
