// Package server is the learning backend: accounts, topics, quizzes and
// AI generation over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/tutor"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Options configures a Server.
type Options struct {
	Store  *store.Store
	Tokens *TokenIssuer
	// Tutor is nil when no LLM provider is configured; AI routes then
	// answer 503.
	Tutor       *tutor.Service
	CORSOrigins []string
	Log         *logger.Logger
}

// Server holds the handlers' dependencies.
type Server struct {
	users   store.UserRepo
	topics  store.TopicRepo
	quizzes store.QuizRepo
	scores  store.ScoreRepo

	tokens  *TokenIssuer
	tutor   *tutor.Service
	origins []string
	log     *logger.Logger
}

// New builds a Server.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("server: token issuer is required")
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		users:   opts.Store.UserRepo(),
		topics:  opts.Store.TopicRepo(),
		quizzes: opts.Store.QuizRepo(),
		scores:  opts.Store.ScoreRepo(),
		tokens:  opts.Tokens,
		tutor:   opts.Tutor,
		origins: opts.CORSOrigins,
		log:     log.With("component", "server"),
	}, nil
}

// Handler returns the routed gin engine.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(s.log), recovery(s.log))
	if len(s.origins) > 0 {
		r.Use(corsMiddleware(s.origins))
	}

	r.GET("/", s.info)
	r.GET("/health", s.health)

	authed := s.requireAuth()

	a := r.Group("/auth")
	{
		a.POST("/register", s.register)
		a.POST("/login", s.login)
		a.GET("/me", authed, s.me)
	}

	t := r.Group("/topics")
	{
		t.GET("/", s.listTopics)
		t.POST("/", authed, s.createTopic)
		t.GET("/:topic_id", s.getTopic)
		t.GET("/:topic_id/content", s.listContent)
		t.POST("/:topic_id/content", authed, s.createContent)
	}

	q := r.Group("/quiz")
	{
		q.POST("/submit", authed, s.submitQuiz)
		q.GET("/progress/", authed, s.progress)
		q.GET("/scores/:topic_id", authed, s.topicScores)
		q.GET("/:topic_id", s.quizQuestions)
	}

	g := r.Group("/gemini", authed)
	{
		g.POST("/query", s.query)
		g.POST("/generate-quiz", s.generateQuiz)
		g.POST("/explain-topic/:topic_id", s.explainTopic)
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not Found")
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, api.Info{
		Message:     "AI Learning Companion API",
		Version:     Version,
		Description: "API for learning AI/ML concepts with Gemini Pro",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, api.Health{Status: "healthy"})
}

// pathID parses an integer path parameter, failing the request with 422
// when it is malformed.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return id, true
}

// loadTopic fetches the topic or fails the request with 404.
func (s *Server) loadTopic(c *gin.Context, id int) (*store.Topic, bool) {
	t, err := s.topics.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, "Topic not found")
		return nil, false
	case err != nil:
		s.internal(c, "load topic", err)
		return nil, false
	}
	return t, true
}

func (s *Server) internal(c *gin.Context, what string, err error) {
	s.log.Error(what+" failed", "error", err, "request_id", c.GetString(ctxRequestID))
	fail(c, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %s failed", what))
}

func apiTime(t time.Time) api.Time { return api.Time{Time: t} }
