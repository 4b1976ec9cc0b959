// Package quiz runs a single quiz attempt: it holds the loaded questions,
// the learner's position and answers, and submits the attempt for grading.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/progress"
)

var (
	// ErrNoQuestions is returned by Submit before any questions are loaded.
	ErrNoQuestions = errors.New("quiz: no questions loaded")
	// ErrOptionOutOfRange is returned by Answer for an option index the
	// question does not have.
	ErrOptionOutOfRange = errors.New("quiz: option out of range")
	// ErrUnknownQuestion is returned by Answer for a question ID that is
	// not part of the loaded set.
	ErrUnknownQuestion = errors.New("quiz: unknown question")
)

// Phase is the attempt lifecycle.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoaded
	PhaseAnswering
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseLoaded:
		return "loaded"
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Scorer grades an attempt. *api.Client satisfies it.
type Scorer interface {
	SubmitQuiz(ctx context.Context, topicID int, subs []api.Submission) (*api.UserScore, error)
}

// Result is a graded attempt.
type Result struct {
	Score int
	Total int
	Tier  progress.Tier
}

// Percentage returns the rounded score, or 0 for an empty result.
func (r Result) Percentage() int {
	p, err := progress.Percentage(r.Score, r.Total)
	if err != nil {
		return 0
	}
	return p
}

// Message is the encouragement shown with the result.
func (r Result) Message() string {
	switch r.Tier {
	case progress.TierHigh:
		return "Excellent work! You have mastered this topic."
	case progress.TierMid:
		return "Good job! Review the material to strengthen your understanding."
	}
	return "Keep learning! Consider reviewing the topic content again."
}

// Controller is the state of one quiz attempt. It is not safe for
// concurrent use; the UI goroutine owns it.
type Controller struct {
	questions []api.QuizQuestion
	index     int
	answers   map[int]int
	result    *Result
	phase     Phase
}

// New returns an empty controller.
func New() *Controller {
	return &Controller{answers: make(map[int]int)}
}

// Load replaces the question set and starts a fresh attempt. An empty set
// leaves the controller untouched and returns false.
func (c *Controller) Load(questions []api.QuizQuestion) bool {
	if len(questions) == 0 {
		return false
	}
	c.questions = append([]api.QuizQuestion(nil), questions...)
	c.index = 0
	c.answers = make(map[int]int, len(questions))
	c.result = nil
	c.phase = PhaseLoaded
	return true
}

// Answer records (or overwrites) the selected option for a question.
func (c *Controller) Answer(questionID, option int) error {
	q, ok := c.find(questionID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOptionOutOfRange, option, len(q.Options))
	}
	c.answers[questionID] = option
	if c.phase == PhaseLoaded {
		c.phase = PhaseAnswering
	}
	return nil
}

// AnswerCurrent answers the question under the pointer.
func (c *Controller) AnswerCurrent(option int) error {
	q, ok := c.Current()
	if !ok {
		return ErrNoQuestions
	}
	return c.Answer(q.ID, option)
}

// Advance moves to the next question. It is a no-op on the last one.
func (c *Controller) Advance() {
	if c.index < len(c.questions)-1 {
		c.index++
	}
}

// Retreat moves to the previous question. It is a no-op on the first one.
func (c *Controller) Retreat() {
	if c.index > 0 {
		c.index--
	}
}

// Submissions builds the graded payload in question order. Unanswered
// questions are sent with option 0.
func (c *Controller) Submissions() []api.Submission {
	subs := make([]api.Submission, len(c.questions))
	for i, q := range c.questions {
		subs[i] = api.Submission{QuizID: q.ID, SelectedOption: c.answers[q.ID]}
	}
	return subs
}

// Submit grades the attempt. On failure the controller is unchanged so
// the learner can retry.
func (c *Controller) Submit(ctx context.Context, topicID int, scorer Scorer) (Result, error) {
	if len(c.questions) == 0 {
		return Result{}, ErrNoQuestions
	}

	score, err := scorer.SubmitQuiz(ctx, topicID, c.Submissions())
	if err != nil {
		return Result{}, err
	}
	return c.Record(*score), nil
}

// Record stores a graded score for the current attempt and moves to
// PhaseSubmitted. The quiz screen is the production caller: it sends
// Submissions() through its fetch scope and records the response here.
// Submit wraps the same flow for callers holding a Scorer.
func (c *Controller) Record(score api.UserScore) Result {
	res := Result{Score: score.Score, Total: score.TotalQuestions}
	if p, err := progress.Percentage(res.Score, res.Total); err == nil {
		res.Tier = progress.Classify(p)
	}
	c.result = &res
	c.phase = PhaseSubmitted
	return res
}

// Reset starts the same questions over. With questions loaded the
// attempt goes straight back to PhaseAnswering.
func (c *Controller) Reset() {
	c.index = 0
	c.answers = make(map[int]int, len(c.questions))
	c.result = nil
	if len(c.questions) > 0 {
		c.phase = PhaseAnswering
	} else {
		c.phase = PhaseEmpty
	}
}

// Current returns the question under the pointer.
func (c *Controller) Current() (api.QuizQuestion, bool) {
	if len(c.questions) == 0 {
		return api.QuizQuestion{}, false
	}
	return c.questions[c.index], true
}

func (c *Controller) Index() int   { return c.index }
func (c *Controller) Len() int     { return len(c.questions) }
func (c *Controller) Phase() Phase { return c.phase }

// Selected returns the chosen option for a question.
func (c *Controller) Selected(questionID int) (int, bool) {
	opt, ok := c.answers[questionID]
	return opt, ok
}

// Answered returns how many questions have an answer.
func (c *Controller) Answered() int { return len(c.answers) }

// Complete reports whether every question is answered.
func (c *Controller) Complete() bool {
	return len(c.questions) > 0 && len(c.answers) == len(c.questions)
}

// Result returns the graded result once submitted.
func (c *Controller) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

func (c *Controller) find(id int) (api.QuizQuestion, bool) {
	for _, q := range c.questions {
		if q.ID == id {
			return q, true
		}
	}
	return api.QuizQuestion{}, false
}
