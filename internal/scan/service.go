// Package scan runs the product scan pipeline: name extraction, community
// search with synthetic fallback, ranking, comment collection and
// sentiment aggregation.
package scan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/evcraddock/condour/internal/discussion"
	"github.com/evcraddock/condour/internal/product"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// MaxComments is the number of comments kept on a result.
	MaxComments = 50

	// DefaultCommentDelay spaces consecutive comment thread fetches.
	DefaultCommentDelay = 600 * time.Millisecond

	maxCommentPosts      = 10
	maxPostsPerCommunity = 2
)

// Forum searches for product discussion and reads comment threads.
// *reddit.Client satisfies it.
type Forum interface {
	Search(ctx context.Context, productName string) ([]discussion.Post, error)
	Comments(ctx context.Context, permalink string) ([]discussion.Comment, error)
}

// Request describes one scan.
type Request struct {
	Input        string `json:"input" validate:"required,max=2048"`
	SkipComments bool   `json:"skip_comments,omitempty"`
}

// Service runs scans against a forum. It keeps no per-scan state.
type Service struct {
	forum        Forum
	commentDelay time.Duration
	now          func() time.Time
	newID        func() string
}

// Option configures a Service.
type Option func(*Service)

// WithCommentDelay sets the spacing between comment fetches.
func WithCommentDelay(d time.Duration) Option {
	return func(s *Service) { s.commentDelay = d }
}

// NewService creates a scan service.
func NewService(forum Forum, opts ...Option) *Service {
	s := &Service{
		forum:        forum,
		commentDelay: DefaultCommentDelay,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search extracts the product name from input, searches the forum and
// returns deduplicated, ranked posts. When the live search yields nothing
// the synthetic posts are returned instead.
func (s *Service) Search(ctx context.Context, input string) (string, []discussion.Post, Source, error) {
	rec := &recorder{now: s.now}
	return s.search(ctx, strings.TrimSpace(input), rec)
}

// Run performs a full scan. It returns an error only for blank input or a
// cancelled context; upstream failures degrade to warnings or the
// synthetic fallback.
func (s *Service) Run(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, ErrBlankInput
	}

	rec := &recorder{now: s.now, progress: progress}
	name, posts, src, err := s.search(ctx, input, rec)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:          s.newID(),
		ProductName: name,
		Source:      src,
		Posts:       posts,
		Comments:    []discussion.Comment{},
	}

	if len(posts) == 0 {
		rec.fail("No discussions found for this product")
		return s.finish(result, 0, rec), nil
	}

	fetched := 0
	if req.SkipComments {
		rec.info("Skipping comment threads")
	} else {
		rec.info("Fetching opinions from tech communities")
		comments, err := s.collectComments(ctx, posts, src, rec)
		if err != nil {
			return nil, err
		}
		fetched = len(comments)
		if len(comments) > MaxComments {
			comments = comments[:MaxComments]
		}
		result.Comments = comments
	}

	rec.info("Processing raw feedback")
	rec.success("Analysis complete: %d comments processed", fetched)
	return s.finish(result, fetched, rec), nil
}

func (s *Service) finish(r *Result, fetched int, rec *recorder) *Result {
	r.Stats = statsFor(r.Posts, fetched)
	r.Sentiment = sentimentOf(r.Posts, r.Comments)
	r.Log = rec.events
	r.ScannedAt = s.now().UTC()
	return r
}

func (s *Service) search(ctx context.Context, input string, rec *recorder) (string, []discussion.Post, Source, error) {
	rec.info("Analyzing product input")
	name := product.ExtractName(input)
	rec.success("Product identified: %q", name)

	rec.info("Searching forum communities")
	found, err := s.forum.Search(ctx, name)
	src := SourceLive
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, "", ctxErr
		}
		slog.Warn("live search failed, using synthetic posts", "product", name, "error", err)
		rec.warn("No live discussions reachable, showing sample data")
		found = discussion.MockPosts(name)
		src = SourceSynthetic
	}

	posts := discussion.Rank(discussion.Dedupe(found), name)
	if posts == nil {
		posts = []discussion.Post{}
	}
	rec.success("Found %d discussions across tech forums", len(posts))
	return name, posts, src, nil
}

// collectComments reads the threads chosen by selectForComments. Synthetic
// posts get synthetic comments and never touch the network.
func (s *Service) collectComments(ctx context.Context, posts []discussion.Post, src Source, rec *recorder) ([]discussion.Comment, error) {
	selected := selectForComments(posts)

	limit := rate.Inf
	if s.commentDelay > 0 {
		limit = rate.Every(s.commentDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var all []discussion.Comment
	for i, p := range selected {
		rec.info("Reading r/%s community (%d/%d)", p.Community, i+1, len(selected))

		var comments []discussion.Comment
		if src == SourceSynthetic {
			comments = discussion.MockComments(p)
		} else {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			var err error
			comments, err = s.forum.Comments(ctx, p.Permalink)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				failure := &PartialCommentFailure{Community: p.Community, Permalink: p.Permalink, Err: err}
				slog.Warn("comment fetch failed", "community", p.Community, "permalink", p.Permalink, "error", failure)
				rec.warn("Couldn't fetch comments from r/%s", p.Community)
				continue
			}
		}

		for _, c := range comments {
			all = append(all, c.WithPost(p))
		}
	}
	if all == nil {
		all = []discussion.Comment{}
	}
	return all, nil
}

// selectForComments groups posts by community in order of first
// appearance, takes up to two from each group and caps the total.
func selectForComments(posts []discussion.Post) []discussion.Post {
	var order []string
	groups := make(map[string][]discussion.Post)
	for _, p := range posts {
		if _, ok := groups[p.Community]; !ok {
			order = append(order, p.Community)
		}
		if len(groups[p.Community]) < maxPostsPerCommunity {
			groups[p.Community] = append(groups[p.Community], p)
		}
	}

	var selected []discussion.Post
	for _, c := range order {
		selected = append(selected, groups[c]...)
		if len(selected) >= maxCommentPosts {
			return selected[:maxCommentPosts]
		}
	}
	return selected
}
