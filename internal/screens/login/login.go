// Package login is the sign-in and sign-up screen.
package login

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/auth"
	"github.com/abhisek/studymate/internal/fetch"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// MinPasswordLen matches the backend's registration rule.
const MinPasswordLen = 6

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

type doneMsg struct {
	registered bool
	err        error
}

// LoginScreen collects credentials and signs the learner in. In register
// mode it creates the account first and then logs in with it.
type LoginScreen struct {
	deps  screens.Deps
	scope *fetch.Scope

	mode     mode
	name     components.TextInput
	email    components.TextInput
	password components.TextInput
	focus    int

	busy    bool
	spinner spinner.Model
	errMsg  string
	notice  string
}

var (
	_ screen.Screen          = (*LoginScreen)(nil)
	_ screen.KeyHintProvider = (*LoginScreen)(nil)
	_ screen.Closer          = (*LoginScreen)(nil)
)

// New creates a LoginScreen that replaces itself with the home screen once
// signed in.
func New(deps screens.Deps) *LoginScreen {
	s := &LoginScreen{
		deps:     deps,
		scope:    fetch.NewScope(context.Background()),
		name:     components.NewTextInput("Name", "Ada Lovelace", 100),
		email:    components.NewTextInput("Email", "you@example.com", 254),
		password: components.NewPasswordInput("Password"),
		spinner:  components.NewSpinner(),
	}
	if e := deps.Session.Email(); e != "" {
		s.email.SetValue(e)
	}
	return s
}

// WithNotice shows msg above the form until the next submit.
func (s *LoginScreen) WithNotice(msg string) *LoginScreen {
	s.notice = msg
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.focusField(0)
}

func (s *LoginScreen) Title() string {
	if s.mode == modeRegister {
		return "Create Account"
	}
	return "Log In"
}

func (s *LoginScreen) Close() { s.scope.Close() }

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	toggle := "Create account"
	if s.mode == modeRegister {
		toggle = "Have an account?"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: toggle},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// fields returns the inputs shown in the current mode, in focus order.
func (s *LoginScreen) fields() []*components.TextInput {
	if s.mode == modeRegister {
		return []*components.TextInput{&s.name, &s.email, &s.password}
	}
	return []*components.TextInput{&s.email, &s.password}
}

func (s *LoginScreen) focusField(i int) tea.Cmd {
	fields := s.fields()
	if i < 0 {
		i = len(fields) - 1
	}
	i %= len(fields)
	s.focus = i
	for j, f := range fields {
		if j != i {
			f.Blur()
		}
	}
	return fields[i].Focus()
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		return s.handleDone(msg)

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.focusField(s.focus + 1)
		case "shift+tab", "up":
			return s, s.focusField(s.focus - 1)
		case "ctrl+r":
			s.toggleMode()
			return s, s.focusField(0)
		case "enter":
			if s.focus < len(s.fields())-1 {
				return s, s.focusField(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	field := s.fields()[s.focus]
	var cmd tea.Cmd
	*field, cmd = field.Update(msg)
	return s, cmd
}

func (s *LoginScreen) toggleMode() {
	if s.mode == modeLogin {
		s.mode = modeRegister
	} else {
		s.mode = modeLogin
	}
	s.errMsg = ""
	s.notice = ""
}

func (s *LoginScreen) validate() string {
	email := strings.TrimSpace(s.email.Value())
	switch {
	case s.mode == modeRegister && strings.TrimSpace(s.name.Value()) == "":
		return "Please enter your name"
	case email == "" || s.password.Value() == "":
		return "Please enter your email and password"
	case !strings.Contains(email, "@"):
		return "Please enter a valid email address"
	case s.mode == modeRegister && len(s.password.Value()) < MinPasswordLen:
		return "Password must be at least 6 characters"
	}
	return ""
}

func (s *LoginScreen) submit() tea.Cmd {
	if msg := s.validate(); msg != "" {
		s.errMsg = msg
		return nil
	}
	s.busy = true
	s.errMsg = ""
	s.notice = ""

	sess := s.deps.Session
	register := s.mode == modeRegister
	creds := api.Credentials{Email: s.email.Value(), Password: s.password.Value()}
	reg := api.Registration{Name: s.name.Value(), Email: creds.Email, Password: creds.Password}
	ctx := s.scope.Context()

	do := func() tea.Msg {
		if register {
			if _, err := sess.Register(ctx, reg); err != nil {
				return doneMsg{err: err}
			}
		}
		return doneMsg{registered: register, err: sess.Login(ctx, creds)}
	}
	return tea.Batch(do, s.spinner.Tick)
}

func (s *LoginScreen) handleDone(msg doneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.err != nil {
		fallback := "Login failed. Please check your credentials."
		if s.mode == modeRegister {
			fallback = "Registration failed. Please try again."
		}
		if errors.Is(msg.err, auth.ErrMissingCredentials) {
			fallback = "Please enter your email and password"
		}
		if msg.registered {
			// The account exists now; only the login step failed.
			s.mode = modeLogin
			s.notice = "Account created. Please log in."
		}
		s.errMsg = api.Message(msg.err, fallback)
		s.password.Reset()
		return s, s.focusField(len(s.fields()) - 1)
	}

	s.deps.Logger().Info("signed in from tui", "registered", msg.registered)
	return s, screens.Replace(s.deps.Nav.Home())
}

func (s *LoginScreen) View(width, height int) string {
	w := min(layout.TextWidth(width), 56)

	var b strings.Builder
	heading := "Welcome back"
	sub := "Log in to continue learning"
	if s.mode == modeRegister {
		heading = "Create your account"
		sub = "Start your learning journey"
	}
	b.WriteString(theme.Title.Render(heading))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(sub))
	b.WriteString("\n\n")

	for _, f := range s.fields() {
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}

	switch {
	case s.busy && s.mode == modeRegister:
		b.WriteString(components.Loading(s.spinner, "Creating account..."))
	case s.busy:
		b.WriteString(components.Loading(s.spinner, "Logging in..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Width(w).Render(s.errMsg))
	case s.notice != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}

	card := theme.Card.Width(w).Render(b.String())
	return layout.Place(card, width, height)
}
