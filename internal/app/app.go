package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/auth"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/screens/chat"
	"github.com/abhisek/studymate/internal/screens/home"
	"github.com/abhisek/studymate/internal/screens/learn"
	"github.com/abhisek/studymate/internal/screens/login"
	"github.com/abhisek/studymate/internal/screens/progress"
	"github.com/abhisek/studymate/internal/screens/quiz"
	"github.com/abhisek/studymate/internal/screens/topics"
	"github.com/abhisek/studymate/internal/screens/welcome"
	"github.com/abhisek/studymate/internal/ui/layout"
)

// ExpiredNotice is shown on the login screen after a 401.
const ExpiredNotice = "Your session has expired. Please log in again."

// Options holds the dependencies the TUI needs.
type Options struct {
	Backend screens.Backend
	Session *auth.Session
	Log     *logger.Logger
	// SkipIntro starts on the home or login screen without the animation.
	SkipIntro bool
}

// navigator builds screens with the shared dependencies.
type navigator struct {
	deps screens.Deps
}

var _ screens.Navigator = (*navigator)(nil)

func (n *navigator) Home() screen.Screen             { return home.New(n.deps) }
func (n *navigator) Login() screen.Screen            { return login.New(n.deps) }
func (n *navigator) Topics() screen.Screen           { return topics.New(n.deps) }
func (n *navigator) Learn(id int) screen.Screen      { return learn.New(n.deps, id) }
func (n *navigator) Quiz(id int) screen.Screen       { return quiz.New(n.deps, id) }
func (n *navigator) Progress() screen.Screen         { return progress.New(n.deps) }
func (n *navigator) Chat(t *api.Topic) screen.Screen { return chat.New(n.deps, t) }

// start is the first real screen: home when a saved login was restored.
func (n *navigator) start() screen.Screen {
	if n.deps.Session.IsAuthenticated() {
		return n.Home()
	}
	return n.Login()
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	nav    *navigator
	width  int
	height int
}

// newAppModel wires the navigator and picks the first screen.
func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	nav := &navigator{}
	nav.deps = screens.Deps{
		API:     opts.Backend,
		Session: opts.Session,
		Nav:     nav,
		Log:     log.With("component", "tui"),
	}

	var first screen.Screen
	if opts.SkipIntro {
		first = nav.start()
	} else {
		first = welcome.New(nav.start)
	}
	return AppModel{
		router: router.New(first),
		nav:    nav,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screens.SessionExpiredMsg:
		return m, m.expire()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// expire drops the stale token and sends the learner back to the login
// screen with every other screen closed.
func (m AppModel) expire() tea.Cmd {
	deps := m.nav.deps
	return func() tea.Msg {
		deps.Logger().Info("session expired")
		if err := deps.Session.Logout(context.Background()); err != nil {
			deps.Logger().Warn("logout after expiry", "error", err)
		}
		return router.ResetScreenMsg{Screen: login.New(deps).WithNotice(ExpiredNotice)}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.nav.deps.Session.Email(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	} else if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Backend == nil || opts.Session == nil {
		return errors.New("app: backend and session are required")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
