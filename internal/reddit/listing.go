package reddit

import (
	"encoding/json"
	"errors"

	"github.com/evcraddock/condour/internal/discussion"
)

const (
	kindPost    = "t3"
	kindComment = "t1"
)

// Listing is the envelope the forum API wraps every collection in.
type Listing struct {
	Kind string       `json:"kind"`
	Data *ListingData `json:"data"`
}

// ListingData holds the children of a listing.
type ListingData struct {
	After    string  `json:"after"`
	Children []Thing `json:"children"`
}

// Validate reports whether the listing has a children array.
func (l *Listing) Validate() error {
	if l.Data == nil || l.Data.Children == nil {
		return errors.New("listing has no data.children")
	}
	return nil
}

// Thing is a single listing child: a post, a comment or a "more" stub.
type Thing struct {
	Kind string    `json:"kind"`
	Data ThingData `json:"data"`
}

// ThingData carries the union of post and comment fields.
type ThingData struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Permalink   string          `json:"permalink"`
	Score       int             `json:"score"`
	NumComments int             `json:"num_comments"`
	CreatedUTC  float64         `json:"created_utc"`
	Subreddit   string          `json:"subreddit"`
	Author      string          `json:"author"`
	Selftext    string          `json:"selftext"`
	UpvoteRatio float64         `json:"upvote_ratio"`
	Body        string          `json:"body"`
	Replies     json.RawMessage `json:"replies"`
}

// replies decodes the nested reply listing. The API sends an empty string
// when there are none; anything that is not a listing object counts as none.
func (d ThingData) replies() []Thing {
	if len(d.Replies) == 0 || d.Replies[0] != '{' {
		return nil
	}
	var l Listing
	if err := json.Unmarshal(d.Replies, &l); err != nil || l.Data == nil {
		return nil
	}
	return l.Data.Children
}

// threadDocument is the comments endpoint response: the post listing
// followed by the comment listing.
type threadDocument []Listing

// Validate requires the comment listing to be well formed when present.
func (d *threadDocument) Validate() error {
	if len(*d) < 2 {
		return nil
	}
	return (&(*d)[1]).Validate()
}

// postsFromListing converts post children, making permalinks absolute.
func postsFromListing(l *Listing, baseURL string) []discussion.Post {
	posts := make([]discussion.Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind != kindPost || child.Data.ID == "" {
			continue
		}
		d := child.Data
		posts = append(posts, discussion.Post{
			ID:          d.ID,
			Title:       d.Title,
			Community:   d.Subreddit,
			Author:      d.Author,
			Body:        d.Selftext,
			URL:         d.URL,
			Score:       d.Score,
			NumComments: d.NumComments,
			Created:     d.CreatedUTC,
			Permalink:   baseURL + d.Permalink,
			UpvoteRatio: d.UpvoteRatio,
		})
	}
	return posts
}

// flattenComments walks the reply tree depth first. Skipped nodes are not
// descended into.
func flattenComments(children []Thing, depth int) []discussion.Comment {
	var out []discussion.Comment
	for _, child := range children {
		if child.Kind != kindComment || !liveBody(child.Data.Body) {
			continue
		}
		d := child.Data
		out = append(out, discussion.Comment{
			ID:      d.ID,
			Author:  d.Author,
			Body:    d.Body,
			Score:   d.Score,
			Created: d.CreatedUTC,
			Depth:   depth,
		})
		out = append(out, flattenComments(d.replies(), depth+1)...)
	}
	return out
}

func liveBody(body string) bool {
	return body != "" && body != "[deleted]" && body != "[removed]"
}
