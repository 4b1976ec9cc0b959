// Package progress shows the learner's quiz statistics.
package progress

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/fetch"
	stats "github.com/abhisek/studymate/internal/progress"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const dateFormat = "Jan 2, 2006 15:04"

type loadedMsg struct {
	attempts []api.UserScore
	topics   []api.Topic
	err      error
}

type focus int

const (
	focusTopics focus = iota
	focusHistory
)

// ProgressScreen loads every attempt and the topic list in parallel and
// derives the summary, per-topic and history views from them.
type ProgressScreen struct {
	deps  screens.Deps
	scope *fetch.Scope

	names   stats.NameIndex
	latest  []api.UserScore
	summary stats.Summary
	history table.Model

	selected int
	focus    focus
	loaded   bool
	loading  bool
	errMsg   string
	spinner  spinner.Model
}

var (
	_ screen.Screen          = (*ProgressScreen)(nil)
	_ screen.KeyHintProvider = (*ProgressScreen)(nil)
	_ screen.Closer          = (*ProgressScreen)(nil)
	_ screen.Resumer         = (*ProgressScreen)(nil)
)

func New(deps screens.Deps) *ProgressScreen {
	return &ProgressScreen{
		deps:    deps,
		scope:   fetch.NewScope(context.Background()),
		spinner: components.NewSpinner(),
		history: newHistoryTable(),
	}
}

func newHistoryTable() table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.TextDim).
		Bold(true)
	styles.Selected = styles.Cell
	return table.New(
		table.WithColumns(historyColumns(60)),
		table.WithStyles(styles),
		table.WithFocused(false),
	)
}

func historyColumns(width int) []table.Column {
	topic := max(width-10-8-20, 12)
	return []table.Column{
		{Title: "Topic", Width: topic},
		{Title: "Score", Width: 10},
		{Title: "%", Width: 8},
		{Title: "Date", Width: 20},
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ProgressScreen) Title() string { return "Progress" }

func (s *ProgressScreen) Close() { s.scope.Close() }

// Resume reloads so a retaken quiz shows up on return.
func (s *ProgressScreen) Resume() tea.Cmd {
	if s.loading {
		return nil
	}
	return s.load()
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.loaded && len(s.latest) == 0:
		return []layout.KeyHint{
			{Key: "T", Description: "Start learning"},
			{Key: "Esc", Description: "Back"},
		}
	case s.focus == focusHistory:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll history"},
			{Key: "Tab", Description: "Topics"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "L", Description: "Review"},
		{Key: "Q", Description: "Retake quiz"},
		{Key: "Tab", Description: "History"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) load() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	scope, backend := s.scope, s.deps.API
	loadAll := func() tea.Msg {
		var msg loadedMsg
		msg.err = scope.All(
			func(ctx context.Context) (err error) {
				msg.attempts, err = backend.GetUserProgress(ctx)
				return err
			},
			func(ctx context.Context) (err error) {
				msg.topics, err = backend.ListTopics(ctx)
				return err
			},
		)
		return msg
	}
	return tea.Batch(loadAll, s.spinner.Tick)
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			if screens.Expired(msg.err) {
				return s, screens.ExpireSession
			}
			s.errMsg = api.Message(msg.err, "Failed to fetch progress data")
			return s, nil
		}
		s.apply(msg.attempts, msg.topics)
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ProgressScreen) apply(attempts []api.UserScore, topics []api.Topic) {
	s.loaded = true
	s.names = stats.NewNameIndex(topics)
	s.latest = stats.LatestPerTopic(attempts)
	s.summary = stats.SummaryStats(s.latest)
	s.selected = 0
	s.setFocus(focusTopics)

	hist := stats.History(attempts)
	rows := make([]table.Row, len(hist))
	for i, a := range hist {
		rows[i] = table.Row{
			s.names.Name(a.TopicID),
			fmt.Sprintf("%d/%d", a.Score, a.TotalQuestions),
			percentCell(a),
			a.Timestamp.Local().Format(dateFormat),
		}
	}
	s.history.SetRows(rows)
	s.history.GotoTop()
}

func percentCell(a api.UserScore) string {
	pct, err := stats.Percentage(a.Score, a.TotalQuestions)
	if err != nil {
		return "-"
	}
	return strconv.Itoa(pct) + "%"
}

func (s *ProgressScreen) setFocus(f focus) {
	s.focus = f
	if f == focusHistory {
		s.history.Focus()
	} else {
		s.history.Blur()
	}
}

func (s *ProgressScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.errMsg != "" {
		if msg.String() == "r" {
			return s, s.load()
		}
		return s, nil
	}
	if !s.loaded {
		return s, nil
	}
	if len(s.latest) == 0 {
		if msg.String() == "t" {
			return s, screens.Push(s.deps.Nav.Topics())
		}
		return s, nil
	}

	if msg.String() == "tab" {
		if s.focus == focusTopics {
			s.setFocus(focusHistory)
		} else {
			s.setFocus(focusTopics)
		}
		return s, nil
	}

	if s.focus == focusHistory {
		var cmd tea.Cmd
		s.history, cmd = s.history.Update(msg)
		return s, cmd
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.latest)-1 {
			s.selected++
		}
	case "l", "enter":
		return s, screens.Push(s.deps.Nav.Learn(s.latest[s.selected].TopicID))
	case "q":
		return s, screens.Push(s.deps.Nav.Quiz(s.latest[s.selected].TopicID))
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	w := layout.TextWidth(width)
	switch {
	case s.loading:
		return layout.Place(components.Loading(s.spinner, "Loading progress..."), width, height)
	case s.errMsg != "":
		return layout.Place(components.ErrorBox(s.errMsg, "R", min(w, 60)), width, height)
	case !s.loaded:
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("📈 Your Learning Progress"))
	b.WriteString("\n\n")

	if len(s.latest) == 0 {
		b.WriteString(theme.Subtitle.Render("No quiz attempts yet. Take a quiz to see your progress here."))
		b.WriteString("\n\n")
		b.WriteString(components.NewButton("t", "Start Learning").View())
		return layout.Place(theme.Card.Width(min(w, 70)).Render(b.String()), width, height)
	}

	b.WriteString(s.renderCards(w))
	b.WriteString("\n\n")
	if s.summary.Invalid > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d attempt(s) with no questions were left out.", s.summary.Invalid)))
		b.WriteString("\n\n")
	}

	b.WriteString(sectionTitle("Topic Performance", s.focus == focusTopics))
	b.WriteString("\n\n")
	b.WriteString(s.renderTopics(w))
	b.WriteString("\n")

	top := b.String()
	b.Reset()
	b.WriteString(sectionTitle("All Quiz Attempts", s.focus == focusHistory))
	b.WriteString("\n")
	s.history.SetColumns(historyColumns(w))
	s.history.SetWidth(w)
	s.history.SetHeight(max(height-lipgloss.Height(top)-3, 4))
	b.WriteString(s.history.View())

	page := top + b.String()
	return lipgloss.NewStyle().PaddingLeft((width - w) / 2).Render(page)
}

func sectionTitle(title string, active bool) string {
	if active {
		return theme.Selected.Render("▸ " + title)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("  " + title)
}

func (s *ProgressScreen) renderCards(w int) string {
	cardW := max((w-4)/3, 18)
	card := func(label, value string) string {
		body := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(value) +
			"\n" + theme.Subtitle.Render(label)
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(cardW).
			Render(body)
	}
	avg := "-"
	if s.summary.Scored() > 0 {
		avg = theme.Score(s.summary.AverageScore)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Topics Attempted", strconv.Itoa(s.summary.TopicsAttempted)),
		" ",
		card("Average Score", avg),
		" ",
		card("Mastered", fmt.Sprintf("%d 🏆", s.summary.Mastered)),
	)
}

func (s *ProgressScreen) renderTopics(w int) string {
	var b strings.Builder
	for i, a := range s.latest {
		name := s.names.Name(a.TopicID)
		cursor := "  "
		nameStyle := theme.Unselected
		if i == s.selected && s.focus == focusTopics {
			cursor = theme.Selected.Render("▸ ")
			nameStyle = theme.Selected
		}

		pct, err := stats.Percentage(a.Score, a.TotalQuestions)
		status := theme.Hint.Render("no questions")
		if err == nil {
			tier := stats.Classify(pct)
			status = lipgloss.NewStyle().Foreground(theme.TierColor(tier)).Render(tier.Label())
		}
		b.WriteString(cursor + nameStyle.Render(name) + "  " + status)
		b.WriteString("\n")
		if err == nil {
			b.WriteString("  " + components.TierBar("", pct, min(w-2, 50)).View())
			b.WriteString("\n")
		}
		b.WriteString("  " + theme.Hint.Render(fmt.Sprintf("%d/%d correct · Last attempted: %s",
			a.Score, a.TotalQuestions, a.Timestamp.Local().Format(dateFormat))))
		b.WriteString("\n")
	}
	return b.String()
}
