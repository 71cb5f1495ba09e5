package discussion

import (
	"fmt"
	"strings"
)

// MockPrefix marks synthetic post and comment IDs.
const MockPrefix = "mock"

// mockEpoch anchors synthetic timestamps (2024-01-01T00:00:00Z).
const mockEpoch = 1704067200

// IsSynthetic reports whether id was produced by the mock generator.
// Generated IDs always carry the prefix followed by an underscore.
func IsSynthetic(id string) bool {
	return strings.HasPrefix(id, MockPrefix+"_")
}

// MockPosts returns the fixed set of synthetic threads used when no
// community could be searched.
func MockPosts(productName string) []Post {
	name := productName
	if name == "" {
		name = "this product"
	}

	templates := []struct {
		title     string
		community string
		body      string
		score     int
		comments  int
		ratio     float64
	}{
		{
			title:     fmt.Sprintf("%s after six months: honest review", name),
			community: "BuyItForLife",
			body:      fmt.Sprintf("Been using the %s daily. Build quality is solid, a few minor issues with the app.", name),
			score:     412,
			comments:  87,
			ratio:     0.94,
		},
		{
			title:     fmt.Sprintf("Is the %s worth it in 2024?", name),
			community: "gadgets",
			body:      "Looking at alternatives too. Would love to hear long-term impressions.",
			score:     156,
			comments:  64,
			ratio:     0.89,
		},
		{
			title:     fmt.Sprintf("%s: problems nobody talks about", name),
			community: "technology",
			body:      "Mine developed a rattle after a few weeks. Support was slow but replaced it.",
			score:     98,
			comments:  41,
			ratio:     0.81,
		},
	}

	posts := make([]Post, len(templates))
	for i, tmpl := range templates {
		id := fmt.Sprintf("%s_%d", MockPrefix, i+1)
		permalink := fmt.Sprintf("https://www.reddit.com/r/%s/comments/%s/", tmpl.community, id)
		posts[i] = Post{
			ID:          id,
			Title:       tmpl.title,
			Community:   tmpl.community,
			Author:      fmt.Sprintf("condour_sample_%d", i+1),
			Body:        tmpl.body,
			URL:         permalink,
			Score:       tmpl.score,
			NumComments: tmpl.comments,
			Created:     float64(mockEpoch - (i+1)*86400*14),
			Permalink:   permalink,
			UpvoteRatio: tmpl.ratio,
		}
	}
	return posts
}

// MockComments returns a fixed synthetic reply thread for p.
func MockComments(p Post) []Comment {
	replies := []struct {
		body  string
		score int
		depth int
	}{
		{"Had mine for a year. Great sound and the battery is excellent.", 54, 0},
		{"Agreed, best purchase I made last year.", 21, 1},
		{"Comfort is fine but the case feels cheap.", 17, 0},
		{"Firmware updates fixed most of the connection issues for me.", 12, 1},
		{"Returned it. Right side stopped working after two weeks.", 9, 0},
	}

	comments := make([]Comment, len(replies))
	for i, r := range replies {
		comments[i] = Comment{
			ID:      fmt.Sprintf("%s_c%s_%d", MockPrefix, strings.TrimPrefix(p.ID, MockPrefix+"_"), i+1),
			Author:  fmt.Sprintf("condour_reply_%d", i+1),
			Body:    r.body,
			Score:   r.score,
			Created: p.Created + float64((i+1)*3600),
			Depth:   r.depth,
		}
	}
	return comments
}
