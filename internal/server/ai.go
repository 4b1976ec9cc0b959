package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/tutor"
)

func subjectOf(t *store.Topic) tutor.Subject {
	return tutor.Subject{Title: t.Title, Description: t.Description}
}

// requireTutor fails with 503 when no provider is configured.
func (s *Server) requireTutor(c *gin.Context) bool {
	if s.tutor == nil {
		fail(c, http.StatusServiceUnavailable, "AI generation is not configured on this server")
		return false
	}
	return true
}

// generationFailed maps a tutor error to a response.
func (s *Server) generationFailed(c *gin.Context, what string, err error) {
	s.log.Error(what+" failed", "error", err, "request_id", c.GetString(ctxRequestID))

	var rate *llm.ErrRateLimit
	switch {
	case errors.As(err, &rate):
		fail(c, http.StatusTooManyRequests, "AI service is busy, please try again shortly")
	case errors.Is(err, llm.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, "AI generation is not configured on this server")
	default:
		fail(c, http.StatusBadGateway, "Failed to "+what)
	}
}

func (s *Server) query(c *gin.Context) {
	if !s.requireTutor(c) {
		return
	}
	var in api.TutorQuery
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	in.Prompt = strings.TrimSpace(in.Prompt)
	if in.Prompt == "" {
		fail(c, http.StatusUnprocessableEntity, "Prompt is required")
		return
	}

	var subject *tutor.Subject
	if in.TopicID != nil {
		t, ok := s.loadTopic(c, *in.TopicID)
		if !ok {
			return
		}
		sub := subjectOf(t)
		subject = &sub
	}

	text, err := s.tutor.Answer(c.Request.Context(), in.Prompt, subject)
	if err != nil {
		s.generationFailed(c, "generate response", err)
		return
	}
	c.JSON(http.StatusOK, api.TutorResponse{Response: text, TopicID: in.TopicID})
}

func (s *Server) generateQuiz(c *gin.Context) {
	if !s.requireTutor(c) {
		return
	}
	var in api.QuizRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	t, ok := s.loadTopic(c, in.TopicID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	generated, err := s.tutor.GenerateQuiz(ctx, subjectOf(t), in.NumQuestions)
	if err != nil {
		s.generationFailed(c, "generate quiz", err)
		return
	}

	rows := make([]store.Quiz, len(generated))
	for i, q := range generated {
		rows[i] = store.Quiz{TopicID: t.ID, Question: q.Question, Options: q.Options, CorrectOption: q.CorrectOption}
	}
	if err := s.quizzes.CreateMany(ctx, rows); err != nil {
		s.internal(c, "save quiz", err)
		return
	}

	out := make([]api.Quiz, len(rows))
	for i, r := range rows {
		out[i] = api.Quiz{
			ID:            r.ID,
			TopicID:       r.TopicID,
			Question:      r.Question,
			Options:       r.Options,
			CorrectOption: r.CorrectOption,
			CreatedAt:     apiTime(r.CreatedAt),
		}
	}
	s.log.Info("quiz generated", "topic_id", t.ID, "questions", len(out))
	c.JSON(http.StatusOK, out)
}

func (s *Server) explainTopic(c *gin.Context) {
	if !s.requireTutor(c) {
		return
	}
	id, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	t, ok := s.loadTopic(c, id)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	text, err := s.tutor.Explain(ctx, subjectOf(t))
	if err != nil {
		s.generationFailed(c, "generate explanation", err)
		return
	}
	if err := s.topics.AddContent(ctx, &store.Content{TopicID: t.ID, SummaryText: text}); err != nil {
		s.internal(c, "save content", err)
		return
	}
	c.JSON(http.StatusOK, api.TutorResponse{Response: text, TopicID: &t.ID})
}
