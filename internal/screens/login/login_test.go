package login

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/screens/screenstest"
)

func newTestLogin(b *screenstest.Backend) *LoginScreen {
	s := New(screenstest.Deps(b, false))
	s.Init()
	return s
}

func feed(s *LoginScreen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

// finish runs the submit command and feeds the result back.
func finish(t *testing.T, s *LoginScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	for _, msg := range screenstest.Run(cmd) {
		if done, ok := msg.(doneMsg); ok {
			_, next := s.Update(done)
			return next
		}
	}
	t.Fatal("submit produced no result")
	return nil
}

func TestLoginSuccessReplacesScreen(t *testing.T) {
	b := &screenstest.Backend{}
	s := newTestLogin(b)

	feed(s, screenstest.Type("ada@example.com")...)
	feed(s, screenstest.Key("tab"))
	feed(s, screenstest.Type("secret1")...)
	cmd := feed(s, screenstest.Key("enter"))
	if !s.busy {
		t.Fatal("expected busy while logging in")
	}

	next := finish(t, s, cmd)
	if s.busy {
		t.Error("busy flag should clear after the result")
	}
	if !s.deps.Session.IsAuthenticated() {
		t.Error("session should hold a token")
	}
	if got := screenstest.Opened(next); got != "home" {
		t.Errorf("opened %q, want home", got)
	}
}

func TestLoginValidation(t *testing.T) {
	b := &screenstest.Backend{}
	s := newTestLogin(b)

	feed(s, screenstest.Key("tab"))
	if cmd := feed(s, screenstest.Key("enter")); cmd != nil {
		t.Error("blank form should not submit")
	}
	if s.errMsg != "Please enter your email and password" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if b.CallCount("Login") != 0 {
		t.Error("backend should not be called")
	}
}

func TestLoginFailureShowsDetail(t *testing.T) {
	b := &screenstest.Backend{LoginErr: &api.Error{Kind: api.KindUnauthorized, Status: 401, Detail: "Incorrect email or password"}}
	s := newTestLogin(b)

	feed(s, screenstest.Type("ada@example.com")...)
	feed(s, screenstest.Key("enter"))
	feed(s, screenstest.Type("wrong")...)
	finish(t, s, feed(s, screenstest.Key("enter")))

	if s.errMsg != "Incorrect email or password" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.password.Value() != "" {
		t.Error("password should be cleared after a failure")
	}
	if !strings.Contains(s.View(80, 24), "Incorrect email or password") {
		t.Error("view should show the error")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	b := &screenstest.Backend{}
	s := newTestLogin(b)

	feed(s, tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if s.mode != modeRegister || s.Title() != "Create Account" {
		t.Fatalf("mode = %v title = %q", s.mode, s.Title())
	}

	feed(s, screenstest.Type("Ada")...)
	feed(s, screenstest.Key("tab"))
	feed(s, screenstest.Type("ada@example.com")...)
	feed(s, screenstest.Key("tab"))
	feed(s, screenstest.Type("abc")...)
	feed(s, screenstest.Key("enter"))
	if s.errMsg != "Password must be at least 6 characters" {
		t.Fatalf("errMsg = %q", s.errMsg)
	}

	feed(s, screenstest.Type("def")...)
	next := finish(t, s, feed(s, screenstest.Key("enter")))

	if b.CallCount("Register") != 1 || b.CallCount("Login") != 1 {
		t.Errorf("calls = %v", b.Calls)
	}
	if got := screenstest.Opened(next); got != "home" {
		t.Errorf("opened %q after sign-up, want home", got)
	}
}

func TestCloseCancelsScope(t *testing.T) {
	s := newTestLogin(&screenstest.Backend{})
	s.Close()
	if !s.scope.Closed() {
		t.Error("scope should be closed")
	}
}
