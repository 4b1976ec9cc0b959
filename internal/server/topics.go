package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/store"
)

func toAPITopic(t store.Topic) api.Topic {
	return api.Topic{ID: t.ID, Title: t.Title, Description: t.Description, CreatedAt: apiTime(t.CreatedAt)}
}

func toAPIContent(ct store.Content) api.Content {
	return api.Content{ID: ct.ID, TopicID: ct.TopicID, SummaryText: ct.SummaryText, CreatedAt: apiTime(ct.CreatedAt)}
}

func (s *Server) listTopics(c *gin.Context) {
	topics, err := s.topics.List(c.Request.Context())
	if err != nil {
		s.internal(c, "list topics", err)
		return
	}
	out := make([]api.Topic, len(topics))
	for i, t := range topics {
		out[i] = toAPITopic(t)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createTopic(c *gin.Context) {
	var in api.NewTopic
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		fail(c, http.StatusUnprocessableEntity, "Title is required")
		return
	}

	t := &store.Topic{Title: in.Title, Description: strings.TrimSpace(in.Description)}
	if err := s.topics.Create(c.Request.Context(), t); err != nil {
		s.internal(c, "create topic", err)
		return
	}
	c.JSON(http.StatusOK, toAPITopic(*t))
}

func (s *Server) getTopic(c *gin.Context) {
	id, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	t, ok := s.loadTopic(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toAPITopic(*t))
}

func (s *Server) listContent(c *gin.Context) {
	id, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	if _, ok := s.loadTopic(c, id); !ok {
		return
	}
	content, err := s.topics.ListContent(c.Request.Context(), id)
	if err != nil {
		s.internal(c, "list content", err)
		return
	}
	out := make([]api.Content, len(content))
	for i, ct := range content {
		out[i] = toAPIContent(ct)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createContent(c *gin.Context) {
	id, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	var in struct {
		SummaryText string `json:"summary_text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.SummaryText) == "" {
		fail(c, http.StatusUnprocessableEntity, "summary_text is required")
		return
	}
	if _, ok := s.loadTopic(c, id); !ok {
		return
	}

	ct := &store.Content{TopicID: id, SummaryText: in.SummaryText}
	if err := s.topics.AddContent(c.Request.Context(), ct); err != nil {
		s.internal(c, "create content", err)
		return
	}
	c.JSON(http.StatusOK, toAPIContent(*ct))
}
