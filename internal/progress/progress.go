// Package progress derives the learner's progress view from graded quiz
// attempts. Everything here is pure: no I/O and no shared state.
package progress

import (
	"errors"
	"math"
	"sort"

	"github.com/abhisek/studymate/internal/api"
)

// ErrZeroTotal is returned when a percentage is requested for an attempt
// with no questions.
var ErrZeroTotal = errors.New("progress: attempt has zero questions")

// UnknownTopic is shown for attempts whose topic is not in the list.
const UnknownTopic = "Unknown Topic"

// Summary is the headline statistics over the latest attempt per topic.
type Summary struct {
	TopicsAttempted int
	// AverageScore is the mean percentage, rounded. 0 when nothing counts.
	AverageScore int
	Mastered     int
	// Invalid counts attempts skipped because their total was zero.
	Invalid int
}

// Scored is the number of topics that contribute to AverageScore.
func (s Summary) Scored() int { return s.TopicsAttempted - s.Invalid }

// LatestPerTopic keeps the most recent attempt for each topic. When two
// attempts share a timestamp the one seen first wins. The result is in the
// order winners were placed, so a topic whose entry is replaced moves to
// the end.
func LatestPerTopic(attempts []api.UserScore) []api.UserScore {
	var out []api.UserScore
	pos := make(map[int]int)

	for _, a := range attempts {
		i, seen := pos[a.TopicID]
		if !seen {
			pos[a.TopicID] = len(out)
			out = append(out, a)
			continue
		}
		if !a.Timestamp.After(out[i].Timestamp.Time) {
			continue
		}
		out = append(out[:i], out[i+1:]...)
		for id, p := range pos {
			if p > i {
				pos[id] = p - 1
			}
		}
		pos[a.TopicID] = len(out)
		out = append(out, a)
	}
	return out
}

// Percentage is round(100*score/total), halves rounded away from zero.
func Percentage(score, total int) (int, error) {
	if total == 0 {
		return 0, ErrZeroTotal
	}
	return int(math.Round(100 * float64(score) / float64(total))), nil
}

// SummaryStats summarises the latest attempts. Every entry counts as an
// attempted topic; entries with a zero total are left out of the average
// and the mastered count and are counted in Invalid.
func SummaryStats(latest []api.UserScore) Summary {
	var (
		s   Summary
		sum int
		n   int
	)
	for _, a := range latest {
		p, err := Percentage(a.Score, a.TotalQuestions)
		if err != nil {
			s.Invalid++
			continue
		}
		n++
		sum += p
		if Classify(p).Mastered() {
			s.Mastered++
		}
	}
	s.TopicsAttempted = len(latest)
	if n > 0 {
		s.AverageScore = int(math.Round(float64(sum) / float64(n)))
	}
	return s
}

// History returns every attempt, newest first. The input is not modified.
func History(attempts []api.UserScore) []api.UserScore {
	out := append([]api.UserScore(nil), attempts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp.Time)
	})
	return out
}

// NameIndex resolves topic IDs to titles.
type NameIndex map[int]string

// NewNameIndex builds an index from a topic list.
func NewNameIndex(topics []api.Topic) NameIndex {
	idx := make(NameIndex, len(topics))
	for _, t := range topics {
		idx[t.ID] = t.Title
	}
	return idx
}

// Name returns the title for id, or UnknownTopic.
func (n NameIndex) Name(id int) string {
	if title, ok := n[id]; ok {
		return title
	}
	return UnknownTopic
}
