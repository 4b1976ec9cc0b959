package home

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/progress"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/screens/screenstest"
)

func start(t *testing.T, b *screenstest.Backend) *HomeScreen {
	t.Helper()
	h := New(screenstest.Deps(b, true))
	for _, msg := range screenstest.Run(h.Init()) {
		if m, ok := msg.(loadedMsg); ok {
			h.Update(m)
		}
	}
	return h
}

func TestGreetingAndStats(t *testing.T) {
	now := api.Time{Time: time.Now()}
	h := start(t, &screenstest.Backend{Scores: []api.UserScore{
		{TopicID: 1, Score: 5, TotalQuestions: 5, Timestamp: now},
		{TopicID: 2, Score: 3, TotalQuestions: 5, Timestamp: now},
	}})

	if h.name != "Ada" {
		t.Errorf("name = %q, want Ada", h.name)
	}
	if !h.loaded || h.summary.TopicsAttempted != 2 || h.summary.Mastered != 1 || h.summary.AverageScore != 80 {
		t.Errorf("summary = %+v", h.summary)
	}
	view := h.View(120, 40)
	for _, want := range []string{"Welcome back, Ada!", "2 TOPICS", "80% AVG", "1 MASTERED", "ASK THE TUTOR"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMenuNavigation(t *testing.T) {
	h := start(t, &screenstest.Backend{})
	tests := []struct {
		downs int
		want  string
	}{
		{0, "topics"},
		{1, "progress"},
		{2, "chat"},
	}
	for _, tt := range tests {
		h.menu.Selected = 0
		for range tt.downs {
			h.Update(screenstest.Key("down"))
		}
		_, cmd := h.Update(screenstest.Key("enter"))
		if got := screenstest.Opened(cmd); got != tt.want {
			t.Errorf("after %d downs opened %q, want %q", tt.downs, got, tt.want)
		}
	}
}

func TestLogoutResetsToLogin(t *testing.T) {
	b := &screenstest.Backend{}
	h := start(t, b)
	h.menu.Selected = 3
	_, cmd := h.Update(screenstest.Key("enter"))

	var out tea.Msg
	for _, msg := range screenstest.Run(cmd) {
		if m, ok := msg.(loggedOutMsg); ok {
			_, next := h.Update(m)
			out = next()
		}
	}
	reset, ok := out.(router.ResetScreenMsg)
	if !ok || reset.Screen.Title() != "login" {
		t.Fatalf("got %#v, want reset to login", out)
	}
	if h.deps.Session.IsAuthenticated() {
		t.Error("session should be logged out")
	}
}

func TestProgressFailureKeepsMenu(t *testing.T) {
	h := start(t, &screenstest.Backend{ProgressErr: &api.Error{Kind: api.KindTransport}})
	if h.errMsg != "Progress unavailable" {
		t.Errorf("errMsg = %q", h.errMsg)
	}
	if !strings.Contains(h.View(120, 40), "Progress unavailable") {
		t.Error("view should note the failure")
	}
	_, cmd := h.Update(screenstest.Key("enter"))
	if screenstest.Opened(cmd) != "topics" {
		t.Error("menu should still work")
	}
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	h := New(screenstest.Deps(&screenstest.Backend{
		ProgressErr: &api.Error{Kind: api.KindUnauthorized, Status: 401},
	}, true))
	for _, msg := range screenstest.Run(h.Init()) {
		if m, ok := msg.(loadedMsg); ok {
			_, next := h.Update(m)
			if _, ok := next().(screens.SessionExpiredMsg); !ok {
				t.Fatal("expected session expiry")
			}
			return
		}
	}
	t.Fatal("no load result")
}

func TestMascotFollowsAverage(t *testing.T) {
	tests := []struct {
		s    progress.Summary
		want MascotVariant
	}{
		{progress.Summary{}, MascotIdle},
		{progress.Summary{TopicsAttempted: 1, AverageScore: 90}, MascotCelebrating},
		{progress.Summary{TopicsAttempted: 2, AverageScore: 70}, MascotIdle},
		{progress.Summary{TopicsAttempted: 1, AverageScore: 20}, MascotAlert},
		{progress.Summary{TopicsAttempted: 1, Invalid: 1}, MascotIdle},
	}
	for _, tt := range tests {
		if got := mascotFor(tt.s); got != tt.want {
			t.Errorf("mascotFor(%+v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
