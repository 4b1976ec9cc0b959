package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/progress"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // no attempts yet, or middling scores
	MascotCelebrating                      // average in the mastered band
	MascotAlert                            // average below passing
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A·I │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A·I │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ ?
│  ~  │
│ A·I │
└─────┘`

// mascotFor picks the variant for a progress summary.
func mascotFor(s progress.Summary) MascotVariant {
	if s.Scored() == 0 {
		return MascotIdle
	}
	switch progress.Classify(s.AverageScore) {
	case progress.TierHigh:
		return MascotCelebrating
	case progress.TierLow:
		return MascotAlert
	}
	return MascotIdle
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Success
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
