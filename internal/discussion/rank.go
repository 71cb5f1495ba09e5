package discussion

import (
	"sort"
	"strings"
)

// MaxRankedPosts caps the output of Rank.
const MaxRankedPosts = 20

// communityWeights favours enthusiast and reviewer communities.
var communityWeights = map[string]float64{
	"LinusTechTips": 3,
	"MKBHD":         3,
	"UnboxTherapy":  2,
	"hardware":      2,
	"BuyItForLife":  2,
	"buildapc":      2,
	"audiophile":    2,
	"technology":    1.5,
}

// Dedupe drops posts whose ID was already seen, keeping the first.
func Dedupe(posts []Post) []Post {
	seen := make(map[string]bool, len(posts))
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// Rank drops posts without comments and orders the rest by
// relevance × engagement × community weight, highest first. Equal scores
// keep their input order. At most MaxRankedPosts are returned.
func Rank(posts []Post, productName string) []Post {
	type scored struct {
		post  Post
		score float64
	}

	candidates := make([]scored, 0, len(posts))
	for _, p := range posts {
		if p.NumComments <= 0 {
			continue
		}
		candidates = append(candidates, scored{post: p, score: RankScore(p, productName)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > MaxRankedPosts {
		candidates = candidates[:MaxRankedPosts]
	}

	out := make([]Post, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

// RankScore is the composite ranking score of p for productName.
func RankScore(p Post, productName string) float64 {
	return float64(Relevance(p.Title, productName)) *
		float64(Engagement(p)) *
		CommunityWeight(p.Community)
}

// Relevance scores how well a title matches the product name: 10 for the
// whole name, 2 for each name word, never below 1.
func Relevance(title, productName string) int {
	title = strings.ToLower(title)
	name := strings.ToLower(productName)

	score := 0
	if strings.Contains(title, name) {
		score += 10
	}
	for _, word := range strings.Split(name, " ") {
		if strings.Contains(title, word) {
			score += 2
		}
	}

	return max(score, 1)
}

// Engagement is the post score plus twice its comment count.
func Engagement(p Post) int {
	return p.Score + 2*p.NumComments
}

// CommunityWeight returns the ranking multiplier for a community.
func CommunityWeight(community string) float64 {
	if w, ok := communityWeights[community]; ok {
		return w
	}
	return 1
}
