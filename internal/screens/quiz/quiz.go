// Package quiz runs a quiz attempt for one topic.
package quiz

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/fetch"
	"github.com/abhisek/studymate/internal/progress"
	quizctl "github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// MaxQuestions caps how many questions can be requested at once.
const MaxQuestions = 10

type loadedMsg struct {
	topic     *api.Topic
	questions []api.QuizQuestion
	err       error
}

type generatedMsg struct {
	questions []api.QuizQuestion
	err       error
}

type submittedMsg struct {
	score *api.UserScore
	err   error
}

// QuizScreen drives a quiz.Controller: it loads the topic's questions,
// lets the learner answer and move between them, and submits for grading.
type QuizScreen struct {
	deps    screens.Deps
	scope   *fetch.Scope
	topicID int

	topic   *api.Topic
	ctl     *quizctl.Controller
	choice  components.MultiChoice
	count   components.TextInput
	askSize bool

	loading    bool
	generating bool
	submitting bool
	loadErr    string
	errMsg     string
	spinner    spinner.Model
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.Closer          = (*QuizScreen)(nil)
)

func New(deps screens.Deps, topicID int) *QuizScreen {
	count := components.NewNumberInput("How many questions? (1-10)", fmt.Sprint(api.DefaultQuizSize), 2)
	return &QuizScreen{
		deps:    deps,
		scope:   fetch.NewScope(context.Background()),
		topicID: topicID,
		ctl:     quizctl.New(),
		count:   count,
		spinner: components.NewSpinner(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.load()
}

func (s *QuizScreen) Title() string {
	if s.topic != nil {
		return s.topic.Title + " Quiz"
	}
	return "Quiz"
}

func (s *QuizScreen) Close() { s.scope.Close() }

func (s *QuizScreen) busy() bool {
	return s.loading || s.generating || s.submitting
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	switch {
	case s.busy():
		return []layout.KeyHint{back}
	case s.loadErr != "":
		return []layout.KeyHint{{Key: "R", Description: "Retry"}, back}
	case s.askSize:
		return []layout.KeyHint{{Key: "Enter", Description: "Generate"}, {Key: "Tab", Description: "Cancel"}, back}
	case s.ctl.Phase() == quizctl.PhaseSubmitted:
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "L", Description: "Review material"},
			{Key: "P", Description: "Progress"},
			back,
		}
	case s.ctl.Len() == 0:
		return []layout.KeyHint{{Key: "G", Description: "Generate quiz"}, back}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓/A-D", Description: "Choose"},
		{Key: "←→", Description: "Prev/Next"},
	}
	if s.ctl.Complete() {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Submit"})
	}
	return append(hints, layout.KeyHint{Key: "G", Description: "New quiz"}, back)
}

func (s *QuizScreen) load() tea.Cmd {
	s.loading = true
	s.loadErr = ""
	scope, backend, id := s.scope, s.deps.API, s.topicID
	loadAll := func() tea.Msg {
		var msg loadedMsg
		msg.err = scope.All(
			func(ctx context.Context) (err error) {
				msg.topic, err = backend.GetTopic(ctx, id)
				return err
			},
			func(ctx context.Context) (err error) {
				msg.questions, err = backend.GetQuizQuestions(ctx, id)
				return err
			},
		)
		return msg
	}
	return tea.Batch(loadAll, s.spinner.Tick)
}

func (s *QuizScreen) generate(n int) tea.Cmd {
	s.generating = true
	s.askSize = false
	s.errMsg = ""
	scope, backend, id := s.scope, s.deps.API, s.topicID
	run := func() tea.Msg {
		qs, err := fetch.Get(scope, "generate", func(ctx context.Context) ([]api.QuizQuestion, error) {
			if _, err := backend.GenerateQuiz(ctx, id, n); err != nil {
				return nil, err
			}
			return backend.GetQuizQuestions(ctx, id)
		})
		return generatedMsg{questions: qs, err: err}
	}
	return tea.Batch(run, s.spinner.Tick)
}

func (s *QuizScreen) submit() tea.Cmd {
	s.submitting = true
	s.errMsg = ""
	subs := s.ctl.Submissions()
	scope, backend, id := s.scope, s.deps.API, s.topicID
	run := func() tea.Msg {
		score, err := fetch.Get(scope, "submit", func(ctx context.Context) (*api.UserScore, error) {
			return backend.SubmitQuiz(ctx, id, subs)
		})
		return submittedMsg{score: score, err: err}
	}
	return tea.Batch(run, s.spinner.Tick)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			return s, s.fail(msg.err, "Failed to fetch quiz data", true)
		}
		s.topic = msg.topic
		s.setQuestions(msg.questions)
		return s, nil

	case generatedMsg:
		s.generating = false
		if msg.err != nil {
			return s, s.fail(msg.err, "Failed to generate quiz", false)
		}
		if !s.setQuestions(msg.questions) {
			s.errMsg = "No questions were generated. Please try again."
		}
		return s, nil

	case submittedMsg:
		s.submitting = false
		if msg.err != nil {
			return s, s.fail(msg.err, "Failed to submit quiz", false)
		}
		s.ctl.Record(*msg.score)
		return s, nil

	case spinner.TickMsg:
		if !s.busy() {
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

// fail records err. Load failures replace the page; others show inline.
func (s *QuizScreen) fail(err error, fallback string, fatal bool) tea.Cmd {
	if screens.Expired(err) {
		return screens.ExpireSession
	}
	if fatal {
		s.loadErr = api.Message(err, fallback)
	} else {
		s.errMsg = api.Message(err, fallback)
	}
	return nil
}

// setQuestions starts a fresh attempt. Stale answers are dropped by Load.
func (s *QuizScreen) setQuestions(qs []api.QuizQuestion) bool {
	if !s.ctl.Load(qs) {
		return false
	}
	s.syncChoice()
	return true
}

// syncChoice points the selector at the current question.
func (s *QuizScreen) syncChoice() {
	q, ok := s.ctl.Current()
	if !ok {
		return
	}
	chosen, answered := s.ctl.Selected(q.ID)
	if !answered {
		chosen = -1
	}
	s.choice = components.NewMultiChoice(q.Question, q.Options, chosen)
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy() {
		return s, nil
	}
	key := msg.String()

	if s.loadErr != "" {
		if key == "r" {
			return s, s.load()
		}
		return s, nil
	}

	if s.askSize {
		switch key {
		case "enter":
			n, err := s.count.NumericValue()
			if s.count.Value() == "" {
				n, err = api.DefaultQuizSize, nil
			}
			if err != nil || n < 1 || n > MaxQuestions {
				s.errMsg = fmt.Sprintf("Enter a number between 1 and %d", MaxQuestions)
				return s, nil
			}
			s.count.Blur()
			return s, s.generate(n)
		case "tab":
			s.askSize = false
			s.errMsg = ""
			s.count.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.count, cmd = s.count.Update(msg)
		return s, cmd
	}

	if key == "g" {
		s.askSize = true
		s.errMsg = ""
		s.count.Reset()
		return s, s.count.Focus()
	}

	if s.ctl.Phase() == quizctl.PhaseSubmitted {
		switch key {
		case "r":
			s.ctl.Reset()
			s.syncChoice()
		case "l":
			return s, screens.Push(s.deps.Nav.Learn(s.topicID))
		case "p":
			return s, screens.Push(s.deps.Nav.Progress())
		}
		return s, nil
	}

	if s.ctl.Len() == 0 {
		return s, nil
	}

	switch key {
	case "left", "p":
		s.ctl.Retreat()
		s.syncChoice()
		return s, nil
	case "right", "n":
		s.ctl.Advance()
		s.syncChoice()
		return s, nil
	case "s":
		if !s.ctl.Complete() {
			s.errMsg = fmt.Sprintf("Answer all questions before submitting (%d of %d answered)", s.ctl.Answered(), s.ctl.Len())
			return s, nil
		}
		return s, s.submit()
	}

	var picked int
	s.choice, picked = s.choice.Update(msg)
	if picked >= 0 {
		if err := s.ctl.AnswerCurrent(picked); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.errMsg = ""
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	w := min(layout.TextWidth(width), 80)
	var body string
	switch {
	case s.loading:
		return layout.Place(components.Loading(s.spinner, "Loading quiz..."), width, height)
	case s.loadErr != "":
		return layout.Place(components.ErrorBox(s.loadErr, "R", min(w, 60)), width, height)
	case s.ctl.Phase() == quizctl.PhaseSubmitted:
		body = s.resultView(w)
	case s.ctl.Len() == 0:
		body = s.emptyView(w)
	default:
		body = s.questionView(w)
	}
	return layout.Place(theme.Card.Width(w).Render(body), width, height)
}

func (s *QuizScreen) footer(w int) string {
	switch {
	case s.generating:
		return components.Loading(s.spinner, "Generating quiz...")
	case s.submitting:
		return components.Loading(s.spinner, "Submitting...")
	case s.askSize:
		out := s.count.View()
		if s.errMsg != "" {
			out += "\n" + theme.ErrorText.Width(w-6).Render(s.errMsg)
		}
		return out
	case s.errMsg != "":
		return theme.ErrorText.Width(w - 6).Render(s.errMsg)
	}
	return ""
}

func (s *QuizScreen) emptyView(w int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("No Quiz Available"))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Generate a quiz for this topic using AI"))
	b.WriteString("\n\n")
	b.WriteString(components.NewButton("g", "Generate AI Quiz").View())
	if f := s.footer(w); f != "" {
		b.WriteString("\n\n" + f)
	}
	return b.String()
}

func (s *QuizScreen) questionView(w int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("🧪 " + s.Title()))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.ctl.Index()+1, s.ctl.Len())))
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d answered", s.ctl.Answered())))
	b.WriteString("\n")
	bar := components.NewProgressBar("", float64(s.ctl.Index()+1)/float64(s.ctl.Len()), false, w-6)
	b.WriteString(bar.View())
	b.WriteString("\n\n")
	b.WriteString(s.choice.View(w - 6))
	b.WriteString("\n")

	prev := components.NewButton("←", "Previous")
	prev.Enabled = s.ctl.Index() > 0
	var next components.Button
	if s.ctl.Index() == s.ctl.Len()-1 {
		next = components.NewButton("s", "Submit Quiz")
		next.Enabled = s.ctl.Complete()
	} else {
		next = components.NewButton("→", "Next")
	}
	b.WriteString(components.ButtonRow(prev, next))

	if f := s.footer(w); f != "" {
		b.WriteString("\n\n" + f)
	}
	return b.String()
}

func (s *QuizScreen) resultView(w int) string {
	res, _ := s.ctl.Result()
	pct := res.Percentage()

	icon := "📚"
	switch res.Tier {
	case progress.TierHigh:
		icon = "🏆"
	case progress.TierMid:
		icon = "👏"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("🎉 Quiz Complete!"))
	b.WriteString("\n\n")
	b.WriteString(icon + "  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("Your Score: %d/%d", res.Score, res.Total)))
	b.WriteString("  ")
	b.WriteString(theme.Score(pct))
	b.WriteString("\n\n")
	b.WriteString(components.TierBar(res.Tier.Label(), pct, w-6).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(w - 6).Render(res.Message()))
	b.WriteString("\n\n")
	b.WriteString(components.ButtonRow(
		components.NewButton("r", "Try Again"),
		components.NewButton("l", "Review Material"),
		components.NewButton("p", "Progress"),
	))
	if f := s.footer(w); f != "" {
		b.WriteString("\n\n" + f)
	}
	return b.String()
}
