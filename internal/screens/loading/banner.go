package loading

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/ui/theme"
)

const bannerArt = `
 ██████╗  █████╗ ████████╗██╗  ██╗██╗    ██╗ █████╗ ██╗   ██╗███████╗
 ██╔══██╗██╔══██╗╚══██╔══╝██║  ██║██║    ██║██╔══██╗╚██╗ ██╔╝██╔════╝
 ██████╔╝███████║   ██║   ███████║██║ █╗ ██║███████║ ╚████╔╝ ███████╗
 ██╔═══╝ ██╔══██║   ██║   ██╔══██║██║███╗██║██╔══██║  ╚██╔╝  ╚════██║
 ██║     ██║  ██║   ██║   ██║  ██║╚███╔███╔╝██║  ██║   ██║   ███████║
 ╚═╝     ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝ ╚══╝╚══╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝`

const bannerCompact = "P A T H W A Y S"

// RenderBanner returns the banner in the primary colour, or a compact
// fallback for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
