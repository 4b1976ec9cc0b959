package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithTokenSource(TokenFunc(func() string { return token })))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)

	c, err := New("http://localhost:8000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}

func TestLoginSendsCredentials(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)
		writeJSON(w, 200, Token{AccessToken: "tok", TokenType: "bearer"})
	})

	tok, err := c.Login(context.Background(), Credentials{Email: " ada@example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
}

func TestBearerHeaderAttached(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(w, 200, User{ID: 1, Name: "Ada"})
	})

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
}

func TestAuthenticatedCallsRequireToken(t *testing.T) {
	called := false
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.GetUserProgress(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPrecondition))
	assert.False(t, called, "no request should be sent without a token")
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
		detail string
	}{
		{"not found", 404, `{"detail":"Topic not found"}`, KindNotFound, "Topic not found"},
		{"unauthorized", 401, `{"detail":"Could not validate credentials"}`, KindUnauthorized, "Could not validate credentials"},
		{"server", 500, `{"detail":"Failed to generate quiz"}`, KindBackend, "Failed to generate quiz"},
		{"validation list", 422, `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, KindBackend, "field required; bad email"},
		{"no body", 502, ``, KindBackend, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetTopic(context.Background(), 7)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
		})
	}
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := c.ListTopics(context.Background())
	assert.True(t, IsKind(err, KindDecode))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, "Failed to fetch topics", Message(err, "Failed to fetch topics"))
}

func TestMessagePrefersDetail(t *testing.T) {
	err := &Error{Kind: KindBackend, Status: 400, Detail: "Email already registered"}
	assert.Equal(t, "Email already registered", Message(err, "Registration failed"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestSubmitQuizBody(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quiz/submit", r.URL.Path)
		var body SubmissionList
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body.TopicID)
		assert.Equal(t, []Submission{{QuizID: 10, SelectedOption: 2}, {QuizID: 11, SelectedOption: 0}}, body.Submissions)
		_, _ = w.Write([]byte(`{"id":1,"user_id":4,"topic_id":3,"score":1,"total_questions":2,"timestamp":"2024-05-01T10:00:00.123456"}`))
	})

	got, err := c.SubmitQuiz(context.Background(), 3, []Submission{{10, 2}, {11, 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 2, got.TotalQuestions)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), got.Timestamp.Time)
}

func TestGenerateQuizDefaultsCount(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		var req QuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultQuizSize, req.NumQuestions)
		writeJSON(w, 200, []Quiz{{ID: 1, TopicID: req.TopicID, Question: "Q", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1}})
	})

	qs, err := c.GenerateQuiz(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, QuizQuestion{ID: 1, Question: "Q", Options: []string{"a", "b", "c", "d"}}, qs[0].AsQuestion())
}

func TestQueryRejectsBlankPrompt(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	_, err := c.Query(context.Background(), "   ", nil)
	assert.True(t, IsKind(err, KindPrecondition))
}

func TestCompatible(t *testing.T) {
	assert.NoError(t, Compatible("1.0.0"))
	assert.NoError(t, Compatible("v1.4.2"))
	assert.Error(t, Compatible("2.0.0"))
	assert.Error(t, Compatible("banana"))
}

func TestCheckCompatible(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, Info{Message: "AI Learning Companion API", Version: "1.0.0"})
	})
	info, err := c.CheckCompatible(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}
