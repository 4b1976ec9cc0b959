package progress

// Tier buckets a percentage for labels and colours.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

const (
	// MasteryThreshold is the percentage at which a topic counts as mastered.
	MasteryThreshold = 80
	// PassingThreshold is the lower bound of the middle tier.
	PassingThreshold = 60
)

// Classify maps a percentage to its tier.
func Classify(percentage int) Tier {
	switch {
	case percentage >= MasteryThreshold:
		return TierHigh
	case percentage >= PassingThreshold:
		return TierMid
	}
	return TierLow
}

// Label is the short status shown next to a score.
func (t Tier) Label() string {
	switch t {
	case TierHigh:
		return "Mastered"
	case TierMid:
		return "Good"
	case TierLow:
		return "Needs Review"
	}
	return ""
}

// Mastered reports whether the tier counts as mastered.
func (t Tier) Mastered() bool { return t == TierHigh }
