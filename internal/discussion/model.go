// Package discussion holds the forum post and comment models along with
// deduplication, relevance ranking and synthetic fallback data.
package discussion

// Post is a discussion thread found for a product.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Community   string  `json:"community"`
	Author      string  `json:"author"`
	Body        string  `json:"body,omitempty"`
	URL         string  `json:"url,omitempty"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Created     float64 `json:"created"`
	Permalink   string  `json:"permalink"`
	UpvoteRatio float64 `json:"upvote_ratio"`
}

// Comment is a reply within a thread. Depth is 0 for top-level replies.
type Comment struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Body      string  `json:"body"`
	Score     int     `json:"score"`
	Created   float64 `json:"created"`
	Depth     int     `json:"depth"`
	PostTitle string  `json:"post_title,omitempty"`
	Community string  `json:"community,omitempty"`
}

// WithPost returns a copy of c referencing the thread it was read from.
func (c Comment) WithPost(p Post) Comment {
	c.PostTitle = p.Title
	c.Community = p.Community
	return c
}
