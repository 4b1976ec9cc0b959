package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abhisek/studymate/internal/logger"
)

const (
	ctxUserID    = "user_id"
	ctxRequestID = "request_id"
)

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// requestID propagates X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ctxRequestID),
		}
		if uid, ok := c.Get(ctxUserID); ok {
			fields = append(fields, "user_id", uid)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// recovery turns panics into the same 500 envelope as other errors.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error("panic in handler", "path", c.Request.URL.Path, "error", err)
		fail(c, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", err))
	})
}

// requireAuth rejects requests without a valid bearer token and stores the
// user ID on the context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			fail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		id, err := s.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			fail(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		c.Set(ctxUserID, id)
		c.Next()
	}
}

func userID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}
