package api

import (
	"bytes"
	"fmt"
	"time"
)

// Time accepts both RFC 3339 timestamps and the zone-less ISO form older
// backends emit ("2024-05-01T10:00:00.123456"), which is read as UTC.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("api: unrecognized timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is issued by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt Time   `json:"created_at"`
}

type Topic struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   Time   `json:"created_at"`
}

// NewTopic is the create-topic request body.
type NewTopic struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Content is a stored explanation for a topic.
type Content struct {
	ID          int    `json:"id"`
	TopicID     int    `json:"topic_id"`
	SummaryText string `json:"summary_text"`
	CreatedAt   Time   `json:"created_at"`
}

// QuizQuestion is a question as served to learners, without the answer.
type QuizQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Quiz is a question including its answer key, as returned by generation.
type Quiz struct {
	ID            int      `json:"id"`
	TopicID       int      `json:"topic_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	CreatedAt     Time     `json:"created_at"`
}

// AsQuestion strips the answer key.
func (q Quiz) AsQuestion() QuizQuestion {
	return QuizQuestion{ID: q.ID, Question: q.Question, Options: q.Options}
}

// Submission is one answered question.
type Submission struct {
	QuizID         int `json:"quiz_id"`
	SelectedOption int `json:"selected_option"`
}

// SubmissionList is the quiz submit request body.
type SubmissionList struct {
	TopicID     int          `json:"topic_id"`
	Submissions []Submission `json:"submissions"`
}

// UserScore is one graded attempt.
type UserScore struct {
	ID             int  `json:"id"`
	UserID         int  `json:"user_id"`
	TopicID        int  `json:"topic_id"`
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	Timestamp      Time `json:"timestamp"`
}

// TutorQuery is the free-form question request body.
type TutorQuery struct {
	Prompt  string `json:"prompt"`
	TopicID *int   `json:"topic_id,omitempty"`
}

// TutorResponse carries generated text.
type TutorResponse struct {
	Response string `json:"response"`
	TopicID  *int   `json:"topic_id,omitempty"`
}

// QuizRequest asks the backend to generate questions for a topic.
type QuizRequest struct {
	TopicID      int `json:"topic_id"`
	NumQuestions int `json:"num_questions"`
}

// Info describes the backend, from GET /.
type Info struct {
	Message     string `json:"message"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Health is the GET /health body.
type Health struct {
	Status string `json:"status"`
}
