package progress

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/screens/screenstest"
)

var (
	base   = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	topics = []api.Topic{
		{ID: 1, Title: "Machine Learning Fundamentals"},
		{ID: 2, Title: "Neural Networks"},
	}
)

func attempt(topic, score, total int, hours int) api.UserScore {
	return api.UserScore{
		TopicID:        topic,
		Score:          score,
		TotalQuestions: total,
		Timestamp:      api.Time{Time: base.Add(time.Duration(hours) * time.Hour)},
	}
}

func start(t *testing.T, b *screenstest.Backend) *ProgressScreen {
	t.Helper()
	s := New(screenstest.Deps(b, true))
	for _, msg := range screenstest.Run(s.Init()) {
		if m, ok := msg.(loadedMsg); ok {
			s.Update(m)
		}
	}
	return s
}

func TestSummaryUsesLatestAttemptPerTopic(t *testing.T) {
	b := &screenstest.Backend{
		Topics: topics,
		Scores: []api.UserScore{
			attempt(1, 2, 5, 0),
			attempt(2, 5, 5, 1),
			attempt(1, 4, 5, 2),
			attempt(3, 1, 2, 3),
		},
	}
	s := start(t, b)

	if s.summary.TopicsAttempted != 3 {
		t.Errorf("topics attempted = %d, want 3", s.summary.TopicsAttempted)
	}
	// latest: 80, 100, 50 -> 76.67
	if s.summary.AverageScore != 77 {
		t.Errorf("average = %d, want 77", s.summary.AverageScore)
	}
	if s.summary.Mastered != 2 {
		t.Errorf("mastered = %d, want 2", s.summary.Mastered)
	}

	if len(s.history.Rows()) != 4 {
		t.Fatalf("history rows = %d, want 4", len(s.history.Rows()))
	}
	if first := s.history.Rows()[0]; first[0] != "Unknown Topic" || first[2] != "50%" {
		t.Errorf("newest row = %v", first)
	}

	view := s.View(120, 60)
	for _, want := range []string{"Your Learning Progress", "Topics Attempted", "Neural Networks", "Mastered", "Needs Review"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestZeroTotalAttemptCountsButIsNotScored(t *testing.T) {
	s := start(t, &screenstest.Backend{
		Topics: topics,
		Scores: []api.UserScore{attempt(1, 0, 0, 0), attempt(2, 3, 4, 1)},
	})
	if s.summary.Invalid != 1 || s.summary.TopicsAttempted != 2 || s.summary.AverageScore != 75 {
		t.Errorf("summary = %+v", s.summary)
	}
	if got := s.history.Rows()[1][2]; got != "-" {
		t.Errorf("zero-total percentage cell = %q, want -", got)
	}
}

func TestTopicActions(t *testing.T) {
	s := start(t, &screenstest.Backend{
		Topics: topics,
		Scores: []api.UserScore{attempt(1, 2, 5, 0), attempt(2, 5, 5, 1)},
	})

	s.Update(screenstest.Key("down"))
	_, cmd := s.Update(screenstest.Key("l"))
	if got := screenstest.Opened(cmd); got != "learn 2" {
		t.Errorf("opened %q, want learn 2", got)
	}
	s.Update(screenstest.Key("up"))
	_, cmd = s.Update(screenstest.Key("q"))
	if got := screenstest.Opened(cmd); got != "quiz 1" {
		t.Errorf("opened %q, want quiz 1", got)
	}
}

func TestTabMovesFocusToHistory(t *testing.T) {
	s := start(t, &screenstest.Backend{
		Topics: topics,
		Scores: []api.UserScore{attempt(1, 2, 5, 0), attempt(2, 5, 5, 1), attempt(1, 3, 5, 2)},
	})

	s.Update(screenstest.Key("tab"))
	if s.focus != focusHistory || !s.history.Focused() {
		t.Fatal("tab should focus the history table")
	}
	s.Update(screenstest.Key("down"))
	if s.history.Cursor() != 1 {
		t.Errorf("history cursor = %d, want 1", s.history.Cursor())
	}
	if s.selected != 0 {
		t.Error("topic selection should not move while history has focus")
	}
	_, cmd := s.Update(screenstest.Key("q"))
	if screenstest.Opened(cmd) != "" {
		t.Error("topic actions should be inactive while history has focus")
	}

	s.Update(screenstest.Key("tab"))
	if s.focus != focusTopics || s.history.Focused() {
		t.Error("second tab should return focus to topics")
	}
}

func TestEmptyProgressOffersTopics(t *testing.T) {
	s := start(t, &screenstest.Backend{Topics: topics})
	if !strings.Contains(s.View(100, 30), "No quiz attempts yet") {
		t.Error("expected empty-state message")
	}
	_, cmd := s.Update(screenstest.Key("t"))
	if got := screenstest.Opened(cmd); got != "topics" {
		t.Errorf("opened %q, want topics", got)
	}
}

func TestLoadErrorAndRetry(t *testing.T) {
	b := &screenstest.Backend{Topics: topics, ProgressErr: errors.New("boom")}
	s := start(t, b)
	if s.errMsg != "Failed to fetch progress data" {
		t.Fatalf("errMsg = %q", s.errMsg)
	}

	b.ProgressErr = nil
	b.Scores = []api.UserScore{attempt(1, 1, 1, 0)}
	_, cmd := s.Update(screenstest.Key("r"))
	for _, msg := range screenstest.Run(cmd) {
		if m, ok := msg.(loadedMsg); ok {
			s.Update(m)
		}
	}
	if s.errMsg != "" || len(s.latest) != 1 {
		t.Errorf("after retry: err %q latest %d", s.errMsg, len(s.latest))
	}
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	s := New(screenstest.Deps(&screenstest.Backend{
		ProgressErr: &api.Error{Kind: api.KindUnauthorized, Status: 401},
	}, true))
	var cmd = s.Init()
	for _, msg := range screenstest.Run(cmd) {
		if m, ok := msg.(loadedMsg); ok {
			_, next := s.Update(m)
			if _, ok := next().(screens.SessionExpiredMsg); !ok {
				t.Fatal("expected session expiry")
			}
			return
		}
	}
	t.Fatal("no load result")
}
