// Package chat is a free-form conversation with the AI tutor.
package chat

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/fetch"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// Welcome is the tutor's opening line, shown again after the chat is cleared.
const Welcome = "Hello! I'm your AI Learning Companion. I can help you understand Machine Learning and AI concepts. What would you like to learn about today?"

// MaxPromptLen caps a single question.
const MaxPromptLen = 2000

type message struct {
	id     string
	text   string
	isUser bool
	at     time.Time
}

type replyMsg struct {
	// generation is the conversation the question belonged to; replies to
	// a cleared conversation are dropped.
	generation int
	text       string
	err        error
}

// ChatScreen sends each question to the tutor and appends the answer.
type ChatScreen struct {
	deps  screens.Deps
	scope *fetch.Scope
	topic *api.Topic

	messages   []message
	generation int
	thinking   bool
	// follow scrolls the transcript to the newest message on next render.
	follow bool

	input    components.TextInput
	spinner  spinner.Model
	viewport viewport.Model
	now      func() time.Time
}

var (
	_ screen.Screen          = (*ChatScreen)(nil)
	_ screen.KeyHintProvider = (*ChatScreen)(nil)
	_ screen.Closer          = (*ChatScreen)(nil)
)

// New opens a chat. When topic is set every question carries it as
// context.
func New(deps screens.Deps, topic *api.Topic) *ChatScreen {
	s := &ChatScreen{
		deps:     deps,
		scope:    fetch.NewScope(context.Background()),
		topic:    topic,
		input:    components.NewTextInput("", "Ask me anything about AI and Machine Learning...", MaxPromptLen),
		spinner:  components.NewSpinner(),
		viewport: viewport.New(),
		now:      time.Now,
	}
	s.reset()
	return s
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *ChatScreen) Title() string {
	if s.topic != nil {
		return "Tutor · " + s.topic.Title
	}
	return "Tutor"
}

func (s *ChatScreen) Close() { s.scope.Close() }

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+L", Description: "Clear chat"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) reset() {
	s.messages = []message{{id: uuid.NewString(), text: Welcome, at: s.now()}}
	s.viewport.GotoTop()
}

func (s *ChatScreen) add(text string, isUser bool) {
	s.messages = append(s.messages, message{
		id:     uuid.NewString(),
		text:   text,
		isUser: isUser,
		at:     s.now(),
	})
}

func (s *ChatScreen) send() tea.Cmd {
	prompt := strings.TrimSpace(s.input.Value())
	if prompt == "" || s.thinking {
		return nil
	}
	s.add(prompt, true)
	s.input.Reset()
	s.thinking = true

	scope, backend, gen := s.scope, s.deps.API, s.generation
	var topicID *int
	if s.topic != nil {
		id := s.topic.ID
		topicID = &id
	}
	s.deps.Logger().Debug("tutor query", "length", len(prompt), "topic", topicID != nil)
	ask := func() tea.Msg {
		resp, err := fetch.Get(scope, "query", func(ctx context.Context) (*api.TutorResponse, error) {
			return backend.Query(ctx, prompt, topicID)
		})
		if err != nil {
			return replyMsg{generation: gen, err: err}
		}
		return replyMsg{generation: gen, text: resp.Response}
	}
	return tea.Batch(ask, s.spinner.Tick)
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		if msg.generation != s.generation {
			return s, nil
		}
		s.thinking = false
		if msg.err != nil {
			if screens.Expired(msg.err) {
				return s, screens.ExpireSession
			}
			s.add("Sorry, I encountered an error: "+api.Message(msg.err, "Please try again."), false)
		} else {
			s.add(msg.text, false)
		}
		s.follow = true
		return s, nil

	case spinner.TickMsg:
		if !s.thinking {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			cmd := s.send()
			s.follow = true
			return s, cmd
		case "ctrl+l":
			s.generation++
			s.thinking = false
			s.reset()
			return s, nil
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) View(width, height int) string {
	w := layout.TextWidth(width)

	var head strings.Builder
	head.WriteString(theme.Title.Render("💬 Chat with AI Tutor"))
	if s.topic != nil {
		head.WriteString("\n")
		head.WriteString(theme.Subtitle.Render("Context: " + s.topic.Title))
	}
	header := head.String()

	var foot strings.Builder
	if s.thinking {
		foot.WriteString(components.Loading(s.spinner, "AI is thinking..."))
	} else {
		foot.WriteString(theme.Hint.Render(`💡 Try asking: "Explain neural networks" or "What is supervised learning?"`))
	}
	foot.WriteString("\n")
	s.input.Model.SetWidth(max(w-4, 10))
	foot.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(w).
		Render(s.input.View()))
	footer := foot.String()

	s.viewport.SetWidth(w)
	s.viewport.SetHeight(max(height-lipgloss.Height(header)-lipgloss.Height(footer)-2, 3))
	atBottom := s.viewport.AtBottom()
	s.viewport.SetContent(s.transcript(w))
	if atBottom || s.follow {
		s.viewport.GotoBottom()
		s.follow = false
	}

	page := header + "\n\n" + s.viewport.View() + "\n" + footer
	return lipgloss.NewStyle().PaddingLeft((width - w) / 2).Render(page)
}

// transcript renders the messages: the learner's right-aligned, the tutor's
// on the left.
func (s *ChatScreen) transcript(w int) string {
	bubbleW := max(w*3/4, 20)
	user := lipgloss.NewStyle().
		Background(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1)
	tutor := lipgloss.NewStyle().
		Background(theme.BgCard).
		Foreground(theme.Text).
		Padding(0, 1)

	var b strings.Builder
	for _, m := range s.messages {
		stamp := theme.Hint.Render(m.at.Local().Format("15:04:05"))
		if m.isUser {
			bubble := user.Width(min(lipgloss.Width(m.text)+2, bubbleW)).Render(m.text)
			b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Right, bubble+"\n"+stamp))
		} else {
			bubble := tutor.Width(min(lipgloss.Width(m.text)+2, bubbleW)).Render(m.text)
			b.WriteString(bubble + "\n" + stamp)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
