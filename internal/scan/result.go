package scan

import (
	"time"

	"github.com/evcraddock/condour/internal/discussion"
	"github.com/evcraddock/condour/internal/sentiment"
)

// Source tells whether a result came from live data or the synthetic
// fallback. The two are never mixed.
type Source string

const (
	SourceLive      Source = "live"
	SourceSynthetic Source = "synthetic"
)

// Result is a completed scan.
type Result struct {
	ID          string               `json:"id"`
	ProductName string               `json:"product_name"`
	Source      Source               `json:"source"`
	Posts       []discussion.Post    `json:"posts"`
	Comments    []discussion.Comment `json:"comments"`
	Stats       Stats                `json:"stats"`
	Sentiment   sentiment.Breakdown  `json:"sentiment"`
	Log         []Event              `json:"log"`
	ScannedAt   time.Time            `json:"scanned_at"`
}

// Synthetic reports whether the result is sample data.
func (r *Result) Synthetic() bool {
	return r.Source == SourceSynthetic
}

// Stats summarises a result. TotalComments counts every fetched comment,
// including those beyond the kept cap.
type Stats struct {
	TotalPosts    int      `json:"total_posts"`
	TotalComments int      `json:"total_comments"`
	AvgScore      float64  `json:"avg_score"`
	Communities   []string `json:"communities"`
}

func statsFor(posts []discussion.Post, fetchedComments int) Stats {
	s := Stats{
		TotalPosts:    len(posts),
		TotalComments: fetchedComments,
		Communities:   []string{},
	}
	if len(posts) == 0 {
		return s
	}

	seen := make(map[string]bool)
	total := 0
	for _, p := range posts {
		total += p.Score
		if !seen[p.Community] {
			seen[p.Community] = true
			s.Communities = append(s.Communities, p.Community)
		}
	}
	s.AvgScore = float64(total) / float64(len(posts))
	return s
}

// sentimentOf scores posts by title and comments by body.
func sentimentOf(posts []discussion.Post, comments []discussion.Comment) sentiment.Breakdown {
	texts := make([]string, 0, len(posts)+len(comments))
	for _, p := range posts {
		texts = append(texts, p.Title)
	}
	for _, c := range comments {
		texts = append(texts, c.Body)
	}
	return sentiment.Aggregate(texts)
}
