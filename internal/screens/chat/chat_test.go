package chat

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/screens"
	"github.com/abhisek/studymate/internal/screens/screenstest"
)

func open(t *testing.T, b *screenstest.Backend, topic *api.Topic) *ChatScreen {
	t.Helper()
	s := New(screenstest.Deps(b, true), topic)
	s.Init()
	return s
}

// ask types prompt, presses enter and returns the command that was issued.
func ask(s *ChatScreen, prompt string) tea.Cmd {
	for _, msg := range screenstest.Type(prompt) {
		s.Update(msg)
	}
	_, cmd := s.Update(screenstest.Key("enter"))
	return cmd
}

// deliver runs cmd and feeds the reply back to the screen.
func deliver(t *testing.T, s *ChatScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	for _, msg := range screenstest.Run(cmd) {
		if m, ok := msg.(replyMsg); ok {
			_, next := s.Update(m)
			return next
		}
	}
	t.Fatal("no reply produced")
	return nil
}

func TestStartsWithWelcome(t *testing.T) {
	s := open(t, &screenstest.Backend{}, nil)
	if len(s.messages) != 1 || s.messages[0].text != Welcome || s.messages[0].isUser {
		t.Fatalf("messages = %+v", s.messages)
	}
	if !strings.Contains(s.View(100, 30), "Chat with AI Tutor") {
		t.Error("view missing title")
	}
}

func TestQuestionAndAnswer(t *testing.T) {
	b := &screenstest.Backend{Reply: "A neural network is a stack of layers."}
	s := open(t, b, nil)

	cmd := ask(s, "What is a neural network?")
	if !s.thinking {
		t.Fatal("thinking should be set while waiting")
	}
	if s.input.Value() != "" {
		t.Error("input should clear after sending")
	}
	if !strings.Contains(s.View(100, 30), "AI is thinking...") {
		t.Error("view should show thinking indicator")
	}

	deliver(t, s, cmd)
	if s.thinking {
		t.Error("thinking should clear")
	}
	if b.LastPrompt != "What is a neural network?" || b.LastTopicID != nil {
		t.Errorf("query = %q topic %v", b.LastPrompt, b.LastTopicID)
	}
	if len(s.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(s.messages))
	}
	if !s.messages[1].isUser || s.messages[2].text != b.Reply {
		t.Errorf("transcript = %+v", s.messages)
	}
	ids := map[string]bool{}
	for _, m := range s.messages {
		ids[m.id] = true
	}
	if len(ids) != 3 {
		t.Error("message IDs should be unique")
	}
}

func TestBlankPromptIgnored(t *testing.T) {
	b := &screenstest.Backend{}
	s := open(t, b, nil)
	if cmd := ask(s, "   "); cmd != nil {
		t.Error("blank prompt should not send")
	}
	if len(s.messages) != 1 || b.CallCount("Query") != 0 {
		t.Error("nothing should be added for a blank prompt")
	}
}

func TestSecondQuestionWaitsForFirst(t *testing.T) {
	b := &screenstest.Backend{Reply: "ok"}
	s := open(t, b, nil)
	first := ask(s, "one")
	if cmd := ask(s, "two"); cmd != nil {
		t.Error("should not send while the tutor is thinking")
	}
	deliver(t, s, first)
	if b.CallCount("Query") != 1 {
		t.Errorf("Query calls = %d, want 1", b.CallCount("Query"))
	}
}

func TestErrorShownInTranscript(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail", &api.Error{Kind: api.KindBackend, Status: 503, Detail: "AI service is not configured"}, "Sorry, I encountered an error: AI service is not configured"},
		{"no detail", &api.Error{Kind: api.KindTransport}, "Sorry, I encountered an error: Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t, &screenstest.Backend{QueryErr: tt.err}, nil)
			deliver(t, s, ask(s, "hi"))
			last := s.messages[len(s.messages)-1]
			if last.isUser || last.text != tt.want {
				t.Errorf("last message = %+v", last)
			}
		})
	}
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	s := open(t, &screenstest.Backend{QueryErr: &api.Error{Kind: api.KindUnauthorized, Status: 401}}, nil)
	next := deliver(t, s, ask(s, "hi"))
	if _, ok := next().(screens.SessionExpiredMsg); !ok {
		t.Fatal("expected session expiry")
	}
}

func TestTopicContextPassed(t *testing.T) {
	b := &screenstest.Backend{Reply: "ok"}
	topic := &api.Topic{ID: 4, Title: "Computer Vision"}
	s := open(t, b, topic)
	deliver(t, s, ask(s, "what are kernels"))
	if b.LastTopicID == nil || *b.LastTopicID != 4 {
		t.Errorf("topic id = %v, want 4", b.LastTopicID)
	}
	if !strings.Contains(s.View(100, 30), "Context: Computer Vision") {
		t.Error("view should name the topic")
	}
}

func TestClearDropsPendingReply(t *testing.T) {
	b := &screenstest.Backend{Reply: "late answer"}
	s := open(t, b, nil)
	cmd := ask(s, "question")

	s.Update(tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl})
	if len(s.messages) != 1 || s.messages[0].text != Welcome {
		t.Fatalf("clear should restore the welcome message, got %+v", s.messages)
	}
	if s.thinking {
		t.Error("clear should stop the thinking indicator")
	}

	deliver(t, s, cmd)
	if len(s.messages) != 1 {
		t.Error("reply to a cleared conversation should be dropped")
	}
}
