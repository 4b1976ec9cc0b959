package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/store"
)

func toAPIScore(sc store.UserScore) api.UserScore {
	return api.UserScore{
		ID:             sc.ID,
		UserID:         sc.UserID,
		TopicID:        sc.TopicID,
		Score:          sc.Score,
		TotalQuestions: sc.TotalQuestions,
		Timestamp:      apiTime(sc.Timestamp),
	}
}

func toAPIScores(in []store.UserScore) []api.UserScore {
	out := make([]api.UserScore, len(in))
	for i, sc := range in {
		out[i] = toAPIScore(sc)
	}
	return out
}

func (s *Server) quizQuestions(c *gin.Context) {
	id, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	if _, ok := s.loadTopic(c, id); !ok {
		return
	}
	qs, err := s.quizzes.ListByTopic(c.Request.Context(), id)
	if err != nil {
		s.internal(c, "list quizzes", err)
		return
	}
	out := make([]api.QuizQuestion, len(qs))
	for i, q := range qs {
		out[i] = api.QuizQuestion{ID: q.ID, Question: q.Question, Options: q.Options}
	}
	c.JSON(http.StatusOK, out)
}

// submitQuiz grades each submission against the stored answer key. The
// total is the number of submissions; unknown quiz IDs score nothing.
func (s *Server) submitQuiz(c *gin.Context) {
	var in api.SubmissionList
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if len(in.Submissions) == 0 {
		fail(c, http.StatusUnprocessableEntity, "At least one submission is required")
		return
	}
	if _, ok := s.loadTopic(c, in.TopicID); !ok {
		return
	}

	ctx := c.Request.Context()
	ids := make([]int, len(in.Submissions))
	for i, sub := range in.Submissions {
		ids[i] = sub.QuizID
	}
	key, err := s.quizzes.AnswerKey(ctx, ids)
	if err != nil {
		s.internal(c, "load answer key", err)
		return
	}

	score := 0
	for _, sub := range in.Submissions {
		if correct, ok := key[sub.QuizID]; ok && correct == sub.SelectedOption {
			score++
		}
	}

	rec := &store.UserScore{
		UserID:         userID(c),
		TopicID:        in.TopicID,
		Score:          score,
		TotalQuestions: len(in.Submissions),
	}
	if err := s.scores.Create(ctx, rec); err != nil {
		s.internal(c, "save score", err)
		return
	}
	s.log.Info("quiz submitted", "user_id", rec.UserID, "topic_id", rec.TopicID, "score", score, "total", rec.TotalQuestions)
	c.JSON(http.StatusOK, toAPIScore(*rec))
}

func (s *Server) progress(c *gin.Context) {
	scores, err := s.scores.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		s.internal(c, "list scores", err)
		return
	}
	c.JSON(http.StatusOK, toAPIScores(scores))
}

func (s *Server) topicScores(c *gin.Context) {
	id, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	scores, err := s.scores.ListByUserTopic(c.Request.Context(), userID(c), id)
	if err != nil {
		s.internal(c, "list scores", err)
		return
	}
	c.JSON(http.StatusOK, toAPIScores(scores))
}
