package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/progress"
	"github.com/abhisek/studymate/internal/screens/welcome"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and inner padding (4).
	w := frameWidth - 6
	if w > 84 {
		w = 84
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	width := cw
	if compact {
		width = 0
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(welcome.RenderBanner(width))
}

func renderGreeting(name string, cw int) string {
	text := "Welcome to your AI learning companion"
	if name != "" {
		text = fmt.Sprintf("Welcome back, %s!", name)
	}
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderStatsBar renders the progress headline in a bordered box matching
// the content width. A non-empty note replaces the figures.
func renderStatsBar(s progress.Summary, note string, cw int, compact bool) string {
	masteredStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	topicStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case note != "":
		stats = dimStyle.Render(note)
	case s.TopicsAttempted == 0:
		stats = dimStyle.Render("No quizzes taken yet")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			topicStyle.Render(fmt.Sprintf("▤%d", s.TopicsAttempted)),
			avgStyle.Render(fmt.Sprintf("◎%d%%", s.AverageScore)),
			masteredStyle.Render(fmt.Sprintf("★%d", s.Mastered)),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			topicStyle.Render(fmt.Sprintf("▤ %d TOPICS", s.TopicsAttempted)),
			avgStyle.Render(fmt.Sprintf("◎ %d%% AVG", s.AverageScore)),
			masteredStyle.Render(fmt.Sprintf("★ %d MASTERED", s.Mastered)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Accent).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			buttons[i] = selectedBtn.Render("▸ " + label)
		} else {
			buttons[i] = normalBtn.Render(label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for terminals where
// bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int) string {
	lines := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Accent).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderFrame wraps content in a double-border frame, centred vertically
// and horizontally within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
