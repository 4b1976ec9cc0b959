package components

import (
	"strings"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// Button is a keyboard-triggered action shown as "[key] Label". Disabled
// buttons render dimmed; the screen decides whether to honour the key.
type Button struct {
	Key     string
	Label   string
	Enabled bool
}

// NewButton creates an enabled button.
func NewButton(key, label string) Button {
	return Button{Key: key, Label: label, Enabled: true}
}

// View renders the button.
func (b Button) View() string {
	text := "[" + b.Key + "] " + b.Label
	if b.Enabled {
		return theme.ButtonActive.Render(text)
	}
	return theme.ButtonInactive.Render(text)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		parts[i] = b.View()
	}
	return strings.Join(parts, "  ")
}
