// Package topics lists the topics a learner can study.
package topics

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/fetch"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

type loadedMsg struct {
	topics []api.Topic
	err    error
}

// TopicsScreen shows every topic; Enter opens it for study.
type TopicsScreen struct {
	deps  screens.Deps
	scope *fetch.Scope

	topics  []api.Topic
	menu    components.Menu
	loading bool
	errMsg  string
	spinner spinner.Model
}

var (
	_ screen.Screen          = (*TopicsScreen)(nil)
	_ screen.KeyHintProvider = (*TopicsScreen)(nil)
	_ screen.Closer          = (*TopicsScreen)(nil)
)

func New(deps screens.Deps) *TopicsScreen {
	return &TopicsScreen{
		deps:    deps,
		scope:   fetch.NewScope(context.Background()),
		spinner: components.NewSpinner(),
	}
}

func (s *TopicsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *TopicsScreen) Title() string { return "Topics" }

func (s *TopicsScreen) Close() { s.scope.Close() }

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Learn"},
		{Key: "Q", Description: "Take quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) load() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	scope, backend := s.scope, s.deps.API
	fetchTopics := func() tea.Msg {
		topics, err := fetch.Get(scope, "topics", backend.ListTopics)
		return loadedMsg{topics: topics, err: err}
	}
	return tea.Batch(fetchTopics, s.spinner.Tick)
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			if screens.Expired(msg.err) {
				return s, screens.ExpireSession
			}
			s.errMsg = api.Message(msg.err, "Failed to fetch topics")
			return s, nil
		}
		s.setTopics(msg.topics)
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.loading {
			return s, nil
		}
		if s.errMsg != "" {
			if msg.String() == "r" {
				return s, s.load()
			}
			return s, nil
		}
		if msg.String() == "q" {
			if t, ok := s.selected(); ok {
				return s, screens.Push(s.deps.Nav.Quiz(t.ID))
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TopicsScreen) setTopics(topics []api.Topic) {
	s.topics = topics
	items := make([]components.MenuItem, len(topics))
	for i, t := range topics {
		id := t.ID
		items[i] = components.MenuItem{
			Label:       t.Title,
			Description: t.Description,
			Action: func() tea.Cmd {
				return screens.Push(s.deps.Nav.Learn(id))
			},
		}
	}
	s.menu = components.NewMenu(items)
}

func (s *TopicsScreen) selected() (api.Topic, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.topics) {
		return api.Topic{}, false
	}
	return s.topics[s.menu.Selected], true
}

func (s *TopicsScreen) View(width, height int) string {
	w := layout.TextWidth(width)
	if s.loading {
		return layout.Place(components.Loading(s.spinner, "Loading topics..."), width, height)
	}
	if s.errMsg != "" {
		return layout.Place(components.ErrorBox(s.errMsg, "R", min(w, 60)), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("AI & Machine Learning Topics"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Pick a topic to study, or jump straight into its quiz"))
	b.WriteString("\n\n")
	if len(s.topics) == 0 {
		b.WriteString(theme.Hint.Render("No topics available yet."))
	} else {
		b.WriteString(s.menu.View())
	}
	return layout.Place(theme.Card.Width(w).Render(b.String()), width, height)
}
