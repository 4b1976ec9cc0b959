// Package screenstest provides a scripted backend and helpers for driving
// screens in tests.
package screenstest

import (
	"context"
	"fmt"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/auth"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens"
)

// Backend answers every call from its fields. A non-nil error field makes
// the matching call fail.
type Backend struct {
	mu sync.Mutex

	Topics   []api.Topic
	Contents map[int][]api.Content
	Quizzes  map[int][]api.QuizQuestion
	Scores   []api.UserScore

	// Graded is returned by SubmitQuiz.
	Graded *api.UserScore
	// Reply is the text of every tutor response.
	Reply     string
	Generated []api.Quiz

	TopicsErr   error
	ContentErr  error
	QuizErr     error
	SubmitErr   error
	ProgressErr error
	QueryErr    error
	GenerateErr error
	ExplainErr  error
	LoginErr    error

	Calls       map[string]int
	Submitted   []api.Submission
	LastPrompt  string
	LastTopicID *int
}

var _ screens.Backend = (*Backend)(nil)
var _ auth.Authenticator = (*Backend)(nil)
var _ screens.Navigator = Nav{}

func (b *Backend) record(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Calls == nil {
		b.Calls = make(map[string]int)
	}
	b.Calls[name]++
}

// CallCount returns how often name was called.
func (b *Backend) CallCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Calls[name]
}

func (b *Backend) ListTopics(context.Context) ([]api.Topic, error) {
	b.record("ListTopics")
	return b.Topics, b.TopicsErr
}

func (b *Backend) GetTopic(_ context.Context, id int) (*api.Topic, error) {
	b.record("GetTopic")
	if b.TopicsErr != nil {
		return nil, b.TopicsErr
	}
	for _, t := range b.Topics {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, &api.Error{Kind: api.KindNotFound, Status: 404, Detail: "Topic not found"}
}

func (b *Backend) GetTopicContent(_ context.Context, topicID int) ([]api.Content, error) {
	b.record("GetTopicContent")
	return b.Contents[topicID], b.ContentErr
}

func (b *Backend) GetQuizQuestions(_ context.Context, topicID int) ([]api.QuizQuestion, error) {
	b.record("GetQuizQuestions")
	return b.Quizzes[topicID], b.QuizErr
}

func (b *Backend) SubmitQuiz(_ context.Context, topicID int, subs []api.Submission) (*api.UserScore, error) {
	b.record("SubmitQuiz")
	if b.SubmitErr != nil {
		return nil, b.SubmitErr
	}
	b.mu.Lock()
	b.Submitted = subs
	b.mu.Unlock()
	if b.Graded != nil {
		return b.Graded, nil
	}
	return &api.UserScore{TopicID: topicID, Score: len(subs), TotalQuestions: len(subs)}, nil
}

func (b *Backend) GetUserProgress(context.Context) ([]api.UserScore, error) {
	b.record("GetUserProgress")
	return b.Scores, b.ProgressErr
}

func (b *Backend) Query(_ context.Context, prompt string, topicID *int) (*api.TutorResponse, error) {
	b.record("Query")
	b.mu.Lock()
	b.LastPrompt = prompt
	b.LastTopicID = topicID
	b.mu.Unlock()
	if b.QueryErr != nil {
		return nil, b.QueryErr
	}
	return &api.TutorResponse{Response: b.Reply, TopicID: topicID}, nil
}

func (b *Backend) GenerateQuiz(_ context.Context, topicID, _ int) ([]api.Quiz, error) {
	b.record("GenerateQuiz")
	if b.GenerateErr != nil {
		return nil, b.GenerateErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Quizzes == nil {
		b.Quizzes = make(map[int][]api.QuizQuestion)
	}
	qs := make([]api.QuizQuestion, 0, len(b.Generated))
	for _, q := range b.Generated {
		qs = append(qs, q.AsQuestion())
	}
	b.Quizzes[topicID] = qs
	return b.Generated, nil
}

func (b *Backend) ExplainTopic(_ context.Context, topicID int) (*api.TutorResponse, error) {
	b.record("ExplainTopic")
	if b.ExplainErr != nil {
		return nil, b.ExplainErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Contents == nil {
		b.Contents = make(map[int][]api.Content)
	}
	b.Contents[topicID] = append(b.Contents[topicID], api.Content{
		ID: len(b.Contents[topicID]) + 1, TopicID: topicID, SummaryText: b.Reply,
	})
	return &api.TutorResponse{Response: b.Reply, TopicID: &topicID}, nil
}

func (b *Backend) Login(_ context.Context, creds api.Credentials) (*api.Token, error) {
	b.record("Login")
	if b.LoginErr != nil {
		return nil, b.LoginErr
	}
	return &api.Token{AccessToken: "token-" + creds.Email, TokenType: "bearer"}, nil
}

func (b *Backend) Register(_ context.Context, r api.Registration) (*api.User, error) {
	b.record("Register")
	if b.LoginErr != nil {
		return nil, b.LoginErr
	}
	return &api.User{ID: 1, Name: r.Name, Email: r.Email}, nil
}

func (b *Backend) Me(context.Context) (*api.User, error) {
	b.record("Me")
	return &api.User{ID: 1, Name: "Ada", Email: "ada@example.com"}, nil
}

// Deps returns screen dependencies backed by b. When signedIn is set the
// session already holds a token.
func Deps(b *Backend, signedIn bool) screens.Deps {
	sess := auth.NewSession(auth.NewMemoryTokenStore(), logger.Nop())
	sess.Bind(b)
	if signedIn {
		_ = sess.Login(context.Background(), api.Credentials{Email: "ada@example.com", Password: "secret1"})
	}
	return screens.Deps{API: b, Session: sess, Nav: Nav{}, Log: logger.Nop()}
}

// Screen is a placeholder screen produced by Nav. Its title names what was
// opened, e.g. "learn 3".
type Screen struct {
	Name string
}

func (s *Screen) Init() tea.Cmd                           { return nil }
func (s *Screen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *Screen) View(int, int) string                    { return s.Name }
func (s *Screen) Title() string                           { return s.Name }

// Nav opens placeholder screens.
type Nav struct{}

func (Nav) Home() screen.Screen             { return &Screen{Name: "home"} }
func (Nav) Login() screen.Screen            { return &Screen{Name: "login"} }
func (Nav) Topics() screen.Screen           { return &Screen{Name: "topics"} }
func (Nav) Learn(id int) screen.Screen      { return &Screen{Name: fmt.Sprintf("learn %d", id)} }
func (Nav) Quiz(id int) screen.Screen       { return &Screen{Name: fmt.Sprintf("quiz %d", id)} }
func (Nav) Progress() screen.Screen         { return &Screen{Name: "progress"} }
func (Nav) Chat(t *api.Topic) screen.Screen {
	if t == nil {
		return &Screen{Name: "chat"}
	}
	return &Screen{Name: fmt.Sprintf("chat %d", t.ID)}
}

// Opened returns the name of the screen a push or replace command opens,
// or "" when cmd does neither.
func Opened(cmd tea.Cmd) string {
	for _, msg := range Run(cmd) {
		switch m := msg.(type) {
		case router.PushScreenMsg:
			return m.Screen.Title()
		case router.ReplaceScreenMsg:
			return m.Screen.Title()
		case router.ResetScreenMsg:
			return m.Screen.Title()
		}
	}
	return ""
}

// Run executes cmd and returns every message it produces, expanding
// batches. Nil commands and nil messages are dropped.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// Key builds a key press for s: a named key ("enter", "up", "tab", ...) or
// a single printable character.
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

// Type returns one key press per rune of s.
func Type(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return msgs
}
