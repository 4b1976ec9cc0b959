package components

import (
	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// NewSpinner returns the spinner used for every loading state.
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
	)
}

// Loading renders a spinner frame next to a message.
func Loading(sp spinner.Model, msg string) string {
	return sp.View() + " " + theme.Hint.Render(msg)
}

// ErrorBox renders an error message with a retry hint. retryKey may be
// empty when the action cannot be retried.
func ErrorBox(msg, retryKey string, width int) string {
	body := theme.ErrorText.Render("✗ " + msg)
	if retryKey != "" {
		body += "\n\n" + theme.Hint.Render("Press "+retryKey+" to try again")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error).
		Padding(0, 2).
		Width(width).
		Render(body)
}
