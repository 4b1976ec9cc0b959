package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/screens/screenstest"
)

func newTestModel(t *testing.T, signedIn bool) (AppModel, *screenstest.Backend) {
	t.Helper()
	b := &screenstest.Backend{}
	deps := screenstest.Deps(b, signedIn)
	m := newAppModel(Options{Backend: b, Session: deps.Session, SkipIntro: true})
	return m, b
}

// feed delivers msg and then every message its command produces, one level
// deep, so navigation requests reach the router.
func feed(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	for _, out := range screenstest.Run(cmd) {
		switch out.(type) {
		case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.ResetScreenMsg:
			next, _ = m.Update(out)
			m = next.(AppModel)
		}
	}
	return m
}

func TestStartsOnHomeWhenSignedIn(t *testing.T) {
	m, _ := newTestModel(t, true)
	if got := m.router.Active().Title(); got != "Home" {
		t.Errorf("first screen = %q, want Home", got)
	}
}

func TestStartsOnLoginWhenSignedOut(t *testing.T) {
	m, _ := newTestModel(t, false)
	if got := m.router.Active().Title(); got != "Log In" {
		t.Errorf("first screen = %q, want Log In", got)
	}
}

func TestEscPopsToHome(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = feed(m, router.PushScreenMsg{Screen: m.nav.Topics()})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	m = feed(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 || m.router.Active().Title() != "Home" {
		t.Errorf("after esc: depth %d active %q", m.router.Depth(), m.router.Active().Title())
	}

	m = feed(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Error("esc at the root should do nothing")
	}
}

func TestSessionExpiryResetsToLogin(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = feed(m, router.PushScreenMsg{Screen: m.nav.Progress()})
	m = feed(m, screens.SessionExpiredMsg{})

	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
	if got := m.router.Active().Title(); got != "Log In" {
		t.Errorf("active = %q, want Log In", got)
	}
	if m.nav.deps.Session.IsAuthenticated() {
		t.Error("session should be logged out")
	}
	if !strings.Contains(m.router.View(100, 30), ExpiredNotice) {
		t.Error("login screen should explain the expiry")
	}
}

func TestHeaderShowsAccountAndHints(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = feed(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.render()
	for _, want := range []string{"StudyMate", "ada@example.com", "Ctrl+C", "Refresh"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunRequiresDependencies(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Error("expected an error without backend and session")
	}
}
