package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and app styling.
type TextInput struct {
	Model       textinput.Model
	Label       string
	NumericOnly bool
}

// NewTextInput creates a blurred text input. charLimit <= 0 means no limit.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label}
}

// NewPasswordInput creates an input that masks what is typed.
func NewPasswordInput(label string) TextInput {
	t := NewTextInput(label, "", 128)
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	return t
}

// NewNumberInput creates an input that accepts digits only.
func NewNumberInput(label, placeholder string, maxDigits int) TextInput {
	t := NewTextInput(label, placeholder, maxDigits)
	t.NumericOnly = true
	return t
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

func (t *TextInput) Blur() {
	t.Model.Blur()
}

func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 {
				if key[0] < '0' || key[0] > '9' {
					return t, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t TextInput) View() string {
	if t.Label == "" {
		return t.Model.View()
	}
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Focused() {
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	return style.Render(t.Label) + "\n" + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Model.Value())
}
