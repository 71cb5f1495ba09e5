// Package sentiment labels text with a keyword heuristic.
//
// Matching is by substring within each whitespace token, so "issues" also
// matches "tissues". Callers rely on that behaviour staying as it is.
package sentiment

import (
	"math"
	"strings"
)

// Label is the sentiment of a piece of text.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "love", "perfect",
	"best", "awesome", "fantastic", "recommend", "solid", "quality",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "worst", "broken",
	"issues", "problems", "disappointing", "avoid", "cheap", "poor",
}

// Score labels text by counting tokens that contain positive or negative
// keywords. A token can count toward both sides.
func Score(text string) Label {
	var pos, neg int
	for _, token := range strings.Fields(strings.ToLower(text)) {
		if containsAny(token, positiveWords) {
			pos++
		}
		if containsAny(token, negativeWords) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

func containsAny(token string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(token, k) {
			return true
		}
	}
	return false
}

// Breakdown counts labels across a set of texts.
type Breakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`

	PositivePct int `json:"positive_pct"`
	NegativePct int `json:"negative_pct"`
	NeutralPct  int `json:"neutral_pct"`
}

// Total is the number of texts scored.
func (b Breakdown) Total() int {
	return b.Positive + b.Negative + b.Neutral
}

// Aggregate scores every text and reports counts and rounded percentages.
// Percentages are all zero when texts is empty.
func Aggregate(texts []string) Breakdown {
	var b Breakdown
	for _, t := range texts {
		switch Score(t) {
		case Positive:
			b.Positive++
		case Negative:
			b.Negative++
		default:
			b.Neutral++
		}
	}

	total := b.Total()
	b.PositivePct = percent(b.Positive, total)
	b.NegativePct = percent(b.Negative, total)
	b.NeutralPct = percent(b.Neutral, total)
	return b
}

// percent rounds half up, matching how the report has always displayed it.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(n)/float64(total)*100 + 0.5))
}
