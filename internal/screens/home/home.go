package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/fetch"
	"github.com/abhisek/studymate/internal/progress"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
)

type loadedMsg struct {
	user     *api.User
	attempts []api.UserScore
	err      error
}

type loggedOutMsg struct{ err error }

// HomeScreen is the main menu shown after sign-in.
type HomeScreen struct {
	deps  screens.Deps
	scope *fetch.Scope

	menu       components.Menu
	menuLabels []string

	name    string
	summary progress.Summary
	loaded  bool
	errMsg  string
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ screen.Closer          = (*HomeScreen)(nil)
	_ screen.Resumer         = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{
		deps:       deps,
		scope:      fetch.NewScope(context.Background()),
		menuLabels: []string{"TOPICS", "MY PROGRESS", "ASK THE TUTOR", "LOG OUT", "QUIT"},
	}
	if u := deps.Session.User(); u != nil {
		h.name = u.Name
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: h.menuLabels[0], Action: func() tea.Cmd { return screens.Push(deps.Nav.Topics()) }},
		{Label: h.menuLabels[1], Action: func() tea.Cmd { return screens.Push(deps.Nav.Progress()) }},
		{Label: h.menuLabels[2], Action: func() tea.Cmd { return screens.Push(deps.Nav.Chat(nil)) }},
		{Label: h.menuLabels[3], Action: h.logout},
		{Label: h.menuLabels[4], Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) Close() { h.scope.Close() }

// Resume refreshes the headline after a quiz or any other screen closes.
func (h *HomeScreen) Resume() tea.Cmd { return h.load() }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Refresh"},
	}
}

// load fetches the greeting and the progress headline in parallel. Neither
// is required to use the menu.
func (h *HomeScreen) load() tea.Cmd {
	scope, backend, sess := h.scope, h.deps.API, h.deps.Session
	return func() tea.Msg {
		var msg loadedMsg
		msg.err = scope.All(
			func(ctx context.Context) (err error) {
				msg.user, err = sess.CurrentUser(ctx)
				return err
			},
			func(ctx context.Context) (err error) {
				msg.attempts, err = backend.GetUserProgress(ctx)
				return err
			},
		)
		return msg
	}
}

func (h *HomeScreen) logout() tea.Cmd {
	sess := h.deps.Session
	return func() tea.Msg {
		return loggedOutMsg{err: sess.Logout(context.Background())}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			if screens.Expired(msg.err) {
				return h, screens.ExpireSession
			}
			h.deps.Logger().Warn("home: load progress", "error", msg.err)
			h.errMsg = api.Message(msg.err, "Progress unavailable")
			return h, nil
		}
		h.errMsg = ""
		if msg.user != nil {
			h.name = msg.user.Name
		}
		h.summary = progress.SummaryStats(progress.LatestPerTopic(msg.attempts))
		h.loaded = true
		return h, nil

	case loggedOutMsg:
		if msg.err != nil {
			h.deps.Logger().Warn("logout", "error", msg.err)
		}
		return h, func() tea.Msg { return router.ResetScreenMsg{Screen: h.deps.Nav.Login()} }

	case tea.KeyPressMsg:
		if msg.String() == "r" {
			return h, h.load()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	// to estimate the terminal height.
	termHeight := height + 8
	compact := termHeight < 32 || layout.IsCompactWidth(width)
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderGreeting(h.name, cw),
	}
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(h.summary), cw))
	}
	note := h.errMsg
	if note == "" && !h.loaded {
		note = "loading progress..."
	}
	sections = append(sections, renderStatsBar(h.summary, note, cw, compact))
	if termHeight < 26 {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
