// Package screens holds what the individual screens share: the backend
// they talk to, the signed-in session and the message that ends it.
package screens

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/auth"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
)

// Backend is the part of the API client the screens use. *api.Client
// satisfies it.
type Backend interface {
	ListTopics(ctx context.Context) ([]api.Topic, error)
	GetTopic(ctx context.Context, id int) (*api.Topic, error)
	GetTopicContent(ctx context.Context, topicID int) ([]api.Content, error)

	GetQuizQuestions(ctx context.Context, topicID int) ([]api.QuizQuestion, error)
	SubmitQuiz(ctx context.Context, topicID int, subs []api.Submission) (*api.UserScore, error)
	GetUserProgress(ctx context.Context) ([]api.UserScore, error)

	Query(ctx context.Context, prompt string, topicID *int) (*api.TutorResponse, error)
	GenerateQuiz(ctx context.Context, topicID, n int) ([]api.Quiz, error)
	ExplainTopic(ctx context.Context, topicID int) (*api.TutorResponse, error)
}

// Navigator builds the screens a screen can open. The app provides it so
// that screen packages do not import each other.
type Navigator interface {
	Home() screen.Screen
	Login() screen.Screen
	Topics() screen.Screen
	Learn(topicID int) screen.Screen
	Quiz(topicID int) screen.Screen
	Progress() screen.Screen
	// Chat opens the tutor; topic may be nil for a general conversation.
	Chat(topic *api.Topic) screen.Screen
}

// Deps is passed to every screen constructor.
type Deps struct {
	API     Backend
	Session *auth.Session
	Nav     Navigator
	Log     *logger.Logger
}

// Logger returns d.Log, or a no-op logger when unset.
func (d Deps) Logger() *logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

// SessionExpiredMsg asks the app to sign out and show the login screen.
type SessionExpiredMsg struct{}

// Expired reports whether err means the backend rejected the token.
func Expired(err error) bool {
	return api.IsKind(err, api.KindUnauthorized)
}

// ExpireSession is a command that emits SessionExpiredMsg.
func ExpireSession() tea.Msg {
	return SessionExpiredMsg{}
}

// Push returns a command that pushes s onto the router.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// Replace returns a command that swaps the active screen for s.
func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}
