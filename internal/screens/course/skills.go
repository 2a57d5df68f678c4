package course

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/ui/components"
	"github.com/abhisek/pathways/internal/ui/theme"
)

const barWidth = 10

// skillsLines renders the KSB enrichment as plain lines so the view can
// scroll them.
func (s *Screen) skillsLines(k catalog.KSB, width int) []string {
	var lines []string
	item := func(text string, confidence float64) string {
		bar := components.ConfidenceBar(confidence, barWidth)
		room := max(width-lipgloss.Width(bar)-8, 10)
		return "    " + truncateText(text, room) + "  " + bar
	}
	section := func(title string, n int) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, theme.Section.Render(fmt.Sprintf("  %s (%d)", title, n)))
	}

	lines = append(lines, theme.Dim.Render("  Overall confidence ")+components.ConfidenceBar(float64(k.OverallConfidence), barWidth))
	if k.Pathway != "" {
		lines = append(lines, theme.Dim.Render("  Pathway: ")+k.Pathway)
	}

	if len(k.CareerPathways) > 0 {
		section("Career pathways", len(k.CareerPathways))
		for _, c := range k.CareerPathways {
			role := c.Role
			if c.Level != "" {
				role += " (level " + c.Level.String() + ")"
			}
			lines = append(lines, item(role, c.Confidence))
			lines = append(lines, "      "+s.linkLine(c.Role))
		}
	}
	if len(k.SkillsAreas) > 0 {
		section("Skills", len(k.SkillsAreas))
		for _, it := range k.SkillsAreas {
			lines = append(lines, item(it.Description, it.Confidence))
		}
	}
	if len(k.KnowledgeAreas) > 0 {
		section("Knowledge", len(k.KnowledgeAreas))
		for _, it := range k.KnowledgeAreas {
			lines = append(lines, item(it.Description, it.Confidence))
		}
	}
	if len(k.Behaviours) > 0 {
		section("Behaviours", len(k.Behaviours))
		for _, it := range k.Behaviours {
			lines = append(lines, item(it.Description, it.Confidence))
		}
	}
	if len(k.OccupationalStandards) > 0 {
		section("Occupational standards", len(k.OccupationalStandards))
		for _, st := range k.OccupationalStandards {
			name := st.Name
			if st.Level != "" {
				name += " (level " + st.Level.String() + ")"
			}
			lines = append(lines, item(name, st.Confidence))
		}
	}
	if s.expanded && k.AnalysisNotes != "" {
		section("Analysis notes", 1)
		lines = append(lines, strings.Split(
			lipgloss.NewStyle().Foreground(theme.TextDim).Width(min(width-6, 90)).PaddingLeft(4).Render(k.AnalysisNotes),
			"\n")...)
	}
	return lines
}

func (s *Screen) linkLine(title string) string {
	if s.linkPending[title] {
		return theme.Hint.Render("looking up job profile…")
	}
	link, ok := s.links[title]
	switch {
	case !ok:
		return theme.Hint.Render("job profile unavailable")
	case link.HasMapping && link.URL != nil:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render("→ " + *link.URL)
	default:
		return theme.Hint.Render("no job profile mapped")
	}
}

func (s *Screen) skillsView(courseID, width, height int) string {
	k, ok := s.opts.State.KSB(courseID)
	if !ok || k.Empty() {
		return "  " + theme.Dim.Render("No skills or career data for this course.")
	}

	lines := s.skillsLines(k, width)
	if height <= 0 {
		return ""
	}
	s.skillsOffset = min(s.skillsOffset, max(len(lines)-height, 0))
	end := min(s.skillsOffset+height, len(lines))
	return strings.Join(lines[s.skillsOffset:end], "\n")
}

func truncateText(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
