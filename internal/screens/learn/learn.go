// Package learn shows a topic's study material and asks the tutor to
// explain it.
package learn

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/fetch"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

type loadedMsg struct {
	topic   *api.Topic
	content []api.Content
	err     error
}

type explainedMsg struct {
	text    string
	content []api.Content // nil when the refresh failed
	err     error
}

// LearnScreen loads a topic and its stored explanations in parallel.
type LearnScreen struct {
	deps    screens.Deps
	scope   *fetch.Scope
	topicID int

	topic       *api.Topic
	content     []api.Content
	explanation string

	loading    bool
	explaining bool
	errMsg     string

	spinner  spinner.Model
	viewport viewport.Model
}

var (
	_ screen.Screen          = (*LearnScreen)(nil)
	_ screen.KeyHintProvider = (*LearnScreen)(nil)
	_ screen.Closer          = (*LearnScreen)(nil)
)

func New(deps screens.Deps, topicID int) *LearnScreen {
	return &LearnScreen{
		deps:     deps,
		scope:    fetch.NewScope(context.Background()),
		topicID:  topicID,
		spinner:  components.NewSpinner(),
		viewport: viewport.New(),
	}
}

func (s *LearnScreen) Init() tea.Cmd {
	return s.load()
}

func (s *LearnScreen) Title() string {
	if s.topic != nil {
		return s.topic.Title
	}
	return "Learn"
}

func (s *LearnScreen) Close() { s.scope.Close() }

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	if s.topic == nil && s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "E", Description: "AI explanation"},
		{Key: "Q", Description: "Take quiz"},
		{Key: "A", Description: "Ask tutor"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LearnScreen) load() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	scope, backend, id := s.scope, s.deps.API, s.topicID
	loadAll := func() tea.Msg {
		var msg loadedMsg
		msg.err = scope.All(
			func(ctx context.Context) (err error) {
				msg.topic, err = backend.GetTopic(ctx, id)
				return err
			},
			func(ctx context.Context) (err error) {
				msg.content, err = backend.GetTopicContent(ctx, id)
				return err
			},
		)
		return msg
	}
	return tea.Batch(loadAll, s.spinner.Tick)
}

func (s *LearnScreen) explain() tea.Cmd {
	s.explaining = true
	s.errMsg = ""
	scope, backend, id := s.scope, s.deps.API, s.topicID
	log := s.deps.Logger()
	generate := func() tea.Msg {
		resp, err := fetch.Get(scope, "explain", func(ctx context.Context) (*api.TutorResponse, error) {
			return backend.ExplainTopic(ctx, id)
		})
		if err != nil {
			return explainedMsg{err: err}
		}
		// The explanation was stored as new content; pick it up.
		content, err := backend.GetTopicContent(scope.Context(), id)
		if err != nil {
			log.Warn("refresh content after explain", "topic_id", id, "error", err)
		}
		return explainedMsg{text: resp.Response, content: content}
	}
	return tea.Batch(generate, s.spinner.Tick)
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			if screens.Expired(msg.err) {
				return s, screens.ExpireSession
			}
			s.errMsg = api.Message(msg.err, "Failed to fetch data")
			return s, nil
		}
		s.topic = msg.topic
		s.content = msg.content
		return s, nil

	case explainedMsg:
		s.explaining = false
		if msg.err != nil {
			if screens.Expired(msg.err) {
				return s, screens.ExpireSession
			}
			s.errMsg = api.Message(msg.err, "Failed to generate explanation")
			return s, nil
		}
		s.explanation = msg.text
		if msg.content != nil {
			s.content = msg.content
		}
		s.viewport.GotoTop()
		return s, nil

	case spinner.TickMsg:
		if !s.loading && !s.explaining {
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

func (s *LearnScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.topic == nil {
		if s.errMsg != "" && msg.String() == "r" {
			return s, s.load()
		}
		return s, nil
	}

	switch msg.String() {
	case "e":
		if s.explaining {
			return s, nil
		}
		return s, s.explain()
	case "q":
		return s, screens.Push(s.deps.Nav.Quiz(s.topicID))
	case "a":
		return s, screens.Push(s.deps.Nav.Chat(s.topic))
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *LearnScreen) View(width, height int) string {
	w := layout.TextWidth(width)
	switch {
	case s.loading:
		return layout.Place(components.Loading(s.spinner, "Loading topic..."), width, height)
	case s.topic == nil && s.errMsg != "":
		return layout.Place(components.ErrorBox(s.errMsg, "R", min(w, 60)), width, height)
	case s.topic == nil:
		return ""
	}

	var head strings.Builder
	head.WriteString(theme.Title.Render("📚 " + s.topic.Title))
	head.WriteString("\n")
	head.WriteString(theme.Subtitle.Width(w).Render(s.topic.Description))
	head.WriteString("\n\n")
	switch {
	case s.explaining:
		head.WriteString(components.Loading(s.spinner, "Generating AI explanation..."))
	case s.errMsg != "":
		head.WriteString(theme.ErrorText.Width(w).Render(s.errMsg))
	default:
		head.WriteString(components.ButtonRow(
			components.NewButton("e", "AI Explanation"),
			components.NewButton("q", "Take Quiz"),
			components.NewButton("a", "Ask Tutor"),
		))
	}
	header := head.String()

	s.viewport.SetWidth(w)
	s.viewport.SetHeight(max(height-lipgloss.Height(header)-2, 3))
	s.viewport.SetContent(s.body(w))

	page := header + "\n\n" + s.viewport.View()
	return lipgloss.NewStyle().PaddingLeft((width - w) / 2).Render(page)
}

// body renders the scrollable part: the latest explanation and the stored
// materials.
func (s *LearnScreen) body(w int) string {
	var b strings.Builder
	if s.explanation != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("🤖 AI Generated Explanation"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(w).Render(s.explanation))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("📖 Learning Materials"))
	b.WriteString("\n\n")
	if len(s.content) == 0 {
		b.WriteString(theme.Hint.Render("No learning materials available yet."))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press E to generate an AI explanation."))
		return b.String()
	}
	for i, c := range s.content {
		b.WriteString(theme.Selected.Render(fmt.Sprintf("Content #%d", i+1)))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(w).Render(c.SummaryText))
		b.WriteString("\n")
		if !c.CreatedAt.IsZero() {
			b.WriteString(theme.Hint.Render("Created: " + c.CreatedAt.Local().Format("Jan 2, 2006 15:04")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
