package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match (empty = any)
	From    time.Time // timestamp >= From
}

// User is a registered learner. PasswordHash never leaves the server.
type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Topic is a subject a learner can study.
type Topic struct {
	ID          int
	Title       string
	Description string
	CreatedAt   time.Time
}

// Content is a stored explanation for a topic.
type Content struct {
	ID          int
	TopicID     int
	SummaryText string
	CreatedAt   time.Time
}

// Quiz is one multiple-choice question with its answer key.
type Quiz struct {
	ID            int
	TopicID       int
	Question      string
	Options       []string
	CorrectOption int
	CreatedAt     time.Time
}

// UserScore records one graded quiz attempt.
type UserScore struct {
	ID             int
	UserID         int
	TopicID        int
	Score          int
	TotalQuestions int
	Timestamp      time.Time
}

// Credential is the access token saved by the client after login.
type Credential struct {
	AccessToken string
	TokenType   string
	Email       string
	SavedAt     time.Time
}

// UserRepo manages registered users.
type UserRepo interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// TopicRepo manages topics and their stored explanations.
type TopicRepo interface {
	Create(ctx context.Context, t *Topic) error
	Get(ctx context.Context, id int) (*Topic, error)
	List(ctx context.Context) ([]Topic, error)
	Count(ctx context.Context) (int, error)

	AddContent(ctx context.Context, c *Content) error
	ListContent(ctx context.Context, topicID int) ([]Content, error)
}

// QuizRepo manages quiz questions.
type QuizRepo interface {
	// CreateMany inserts all questions in one transaction and fills in IDs.
	CreateMany(ctx context.Context, qs []Quiz) error
	ListByTopic(ctx context.Context, topicID int) ([]Quiz, error)
	// AnswerKey returns the correct option for each known ID.
	AnswerKey(ctx context.Context, ids []int) (map[int]int, error)
}

// ScoreRepo manages graded quiz attempts.
type ScoreRepo interface {
	Create(ctx context.Context, s *UserScore) error
	ListByUser(ctx context.Context, userID int) ([]UserScore, error)
	ListByUserTopic(ctx context.Context, userID, topicID int) ([]UserScore, error)
}

// CredentialRepo persists the client's single saved login.
type CredentialRepo interface {
	Save(ctx context.Context, c Credential) error
	// Load returns nil when nothing is saved.
	Load(ctx context.Context) (*Credential, error)
	Clear(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageRow aggregates LLM usage under one grouping key.
type UsageRow struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	// GetLLMEvent returns ErrNotFound for an unknown ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]UsageRow, error)
	LLMUsageByModel(ctx context.Context) ([]UsageRow, error)
}
