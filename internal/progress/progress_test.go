package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/studymate/internal/api"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func attempt(id, topic, score, total int, at time.Time) api.UserScore {
	return api.UserScore{ID: id, TopicID: topic, Score: score, TotalQuestions: total, Timestamp: api.Time{Time: at}}
}

func ids(scores []api.UserScore) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = s.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLatestPerTopic(t *testing.T) {
	tests := []struct {
		name     string
		attempts []api.UserScore
		want     []int
	}{
		{
			name: "newer replaces older and moves to end",
			attempts: []api.UserScore{
				attempt(1, 1, 2, 5, t0),
				attempt(2, 2, 3, 5, t0.Add(time.Hour)),
				attempt(3, 1, 4, 5, t0.Add(2*time.Hour)),
			},
			want: []int{2, 3},
		},
		{
			name: "older ignored",
			attempts: []api.UserScore{
				attempt(1, 1, 4, 5, t0.Add(time.Hour)),
				attempt(2, 1, 1, 5, t0),
			},
			want: []int{1},
		},
		{
			name: "tie keeps first seen",
			attempts: []api.UserScore{
				attempt(1, 7, 1, 5, t0),
				attempt(2, 7, 5, 5, t0),
			},
			want: []int{1},
		},
		{
			name: "empty",
			want: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(LatestPerTopic(tt.attempts))
			if !equalInts(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLatestPerTopicIndexesAfterRemoval(t *testing.T) {
	attempts := []api.UserScore{
		attempt(1, 1, 1, 5, t0),
		attempt(2, 2, 1, 5, t0),
		attempt(3, 3, 1, 5, t0),
		attempt(4, 1, 1, 5, t0.Add(time.Hour)),
		attempt(5, 3, 1, 5, t0.Add(time.Hour)),
	}
	got := ids(LatestPerTopic(attempts))
	want := []int{2, 4, 5}
	if !equalInts(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{4, 5, 80},
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds away from zero
	}
	for _, tt := range tests {
		got, err := Percentage(tt.score, tt.total)
		if err != nil {
			t.Fatalf("Percentage(%d,%d): %v", tt.score, tt.total, err)
		}
		if got != tt.want {
			t.Errorf("Percentage(%d,%d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}

	if _, err := Percentage(0, 0); !errors.Is(err, ErrZeroTotal) {
		t.Errorf("Percentage(0,0) err = %v, want ErrZeroTotal", err)
	}
}

func TestSummaryStats(t *testing.T) {
	if got := SummaryStats(nil); got != (Summary{}) {
		t.Errorf("empty summary = %+v", got)
	}

	latest := []api.UserScore{
		attempt(1, 1, 4, 5, t0), // 80 mastered
		attempt(2, 2, 3, 5, t0), // 60
		attempt(3, 3, 0, 0, t0), // invalid
	}
	got := SummaryStats(latest)
	want := Summary{TopicsAttempted: 3, AverageScore: 70, Mastered: 1, Invalid: 1}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}
}

func TestSummaryCountsZeroTotalTopics(t *testing.T) {
	got := SummaryStats([]api.UserScore{
		attempt(1, 1, 4, 5, t0),
		attempt(2, 2, 0, 0, t0),
	})
	want := Summary{TopicsAttempted: 2, AverageScore: 80, Mastered: 1, Invalid: 1}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}
	if got.Scored() != 1 {
		t.Errorf("scored = %d, want 1", got.Scored())
	}

	onlyInvalid := SummaryStats([]api.UserScore{attempt(1, 1, 0, 0, t0)})
	if onlyInvalid.TopicsAttempted != 1 || onlyInvalid.Scored() != 0 || onlyInvalid.AverageScore != 0 {
		t.Errorf("only invalid = %+v", onlyInvalid)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		pct  int
		want Tier
	}{
		{100, TierHigh},
		{80, TierHigh},
		{79, TierMid},
		{60, TierMid},
		{59, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		if got := Classify(tt.pct); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.pct, got, tt.want)
		}
	}
	if !Classify(80).Mastered() || Classify(79).Mastered() {
		t.Error("mastery threshold is 80")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	in := []api.UserScore{
		attempt(1, 1, 1, 5, t0),
		attempt(2, 2, 1, 5, t0.Add(2*time.Hour)),
		attempt(3, 1, 1, 5, t0.Add(time.Hour)),
	}
	got := ids(History(in))
	if !equalInts(got, []int{2, 3, 1}) {
		t.Errorf("history = %v", got)
	}
	if in[0].ID != 1 {
		t.Error("input was reordered")
	}
}

func TestNameIndex(t *testing.T) {
	idx := NewNameIndex([]api.Topic{{ID: 1, Title: "Neural Networks"}})
	if idx.Name(1) != "Neural Networks" {
		t.Errorf("name = %q", idx.Name(1))
	}
	if idx.Name(2) != UnknownTopic {
		t.Errorf("missing name = %q", idx.Name(2))
	}
}
