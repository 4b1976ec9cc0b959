package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// optionLabels letter the options. Questions with more options than
// letters fall back to numbers.
var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice renders one question with a cursor and the learner's chosen
// option. It does not know the correct answer.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int // -1 when nothing is chosen
}

// NewMultiChoice creates a selector. chosen is the previously selected
// option or -1.
func NewMultiChoice(question string, options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	} else {
		chosen = -1
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Update moves the cursor and reports the option picked by this message,
// or -1 when none was. Enter and space pick the cursor; a letter or digit
// picks that option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, -1
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, -1
	case "enter", "space", " ":
		m.Chosen = m.Cursor
		return m, m.Chosen
	}

	if i := optionIndex(key); i >= 0 && i < len(m.Options) {
		m.Cursor = i
		m.Chosen = i
		return m, i
	}
	return m, -1
}

func optionIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'f':
		return int(c - 'a')
	case c >= 'A' && c <= 'F':
		return int(c - 'A')
	case c >= '1' && c <= '9':
		return int(c - '1')
	}
	return -1
}

func label(i int) string {
	if i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprintf("%d", i+1)
}

// View renders the question and its options at the given width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, label(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == m.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
