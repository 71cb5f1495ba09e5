// Package reddit searches forum communities for product discussion and
// reads comment threads, going through a relay fetcher for every request.
package reddit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/condour/internal/discussion"
	"github.com/evcraddock/condour/internal/relay"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public forum host.
	DefaultBaseURL = "https://www.reddit.com"

	// DefaultDelay spaces consecutive community searches.
	DefaultDelay = 500 * time.Millisecond

	searchLimit = 10
)

// ErrEmptySearchResult is returned when no community produced a post.
var ErrEmptySearchResult = errors.New("no discussion found")

// Fetcher retrieves upstream documents. *relay.Client satisfies it.
type Fetcher interface {
	FetchJSON(ctx context.Context, target string, v any) error
	FetchFeed(ctx context.Context, target string) (*gofeed.Feed, error)
}

// Client queries the forum API.
type Client struct {
	fetcher     Fetcher
	baseURL     string
	communities []string
	delay       time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the forum host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithCommunities replaces the community catalogue.
func WithCommunities(communities []string) Option {
	return func(c *Client) {
		if len(communities) > 0 {
			c.communities = append([]string(nil), communities...)
		}
	}
}

// WithDelay sets the spacing between community searches. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// New creates a client that fetches through f.
func New(f Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:     f,
		baseURL:     DefaultBaseURL,
		communities: append([]string(nil), DefaultCommunities...),
		delay:       DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Communities returns the catalogue in query order.
func (c *Client) Communities() []string {
	return append([]string(nil), c.communities...)
}

// Search queries every community in turn and returns the posts found, in
// discovery order. A community that fails is logged and skipped.
func (c *Client) Search(ctx context.Context, productName string) ([]discussion.Post, error) {
	limit := rate.Inf
	if c.delay > 0 {
		limit = rate.Every(c.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var posts []discussion.Post
	failed := 0
	for _, community := range c.communities {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting to search r/%s: %w", community, err)
		}

		found, err := c.SearchCommunity(ctx, productName, community)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failed++
			slog.Warn("community search failed", "community", community, "error", err)
			continue
		}
		slog.Debug("community searched", "community", community, "posts", len(found))
		posts = append(posts, found...)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("%w for %q (%d of %d communities failed)",
			ErrEmptySearchResult, productName, failed, len(c.communities))
	}
	return posts, nil
}

// SearchCommunity searches a single community. When every relay fails for
// the JSON endpoint it retries with the XML feed.
func (c *Client) SearchCommunity(ctx context.Context, productName, community string) ([]discussion.Post, error) {
	var listing Listing
	err := c.fetcher.FetchJSON(ctx, c.searchURL(productName, community, "json"), &listing)
	if err == nil {
		posts := postsFromListing(&listing, c.baseURL)
		for i := range posts {
			if posts[i].Community == "" {
				posts[i].Community = community
			}
		}
		return posts, nil
	}
	if !errors.Is(err, relay.ErrRelayExhausted) {
		return nil, fmt.Errorf("searching r/%s: %w", community, err)
	}

	feed, feedErr := c.fetcher.FetchFeed(ctx, c.searchURL(productName, community, "rss"))
	if feedErr != nil {
		return nil, fmt.Errorf("searching r/%s: %w", community, errors.Join(err, feedErr))
	}
	slog.Debug("using search feed", "community", community, "items", len(feed.Items))
	return postsFromFeed(feed, community), nil
}

// Comments fetches the thread at permalink and flattens its reply tree.
func (c *Client) Comments(ctx context.Context, permalink string) ([]discussion.Comment, error) {
	var doc threadDocument
	if err := c.fetcher.FetchJSON(ctx, permalink+".json?limit=100&sort=top", &doc); err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	if len(doc) < 2 {
		return nil, nil
	}
	return flattenComments(doc[1].Data.Children, 0), nil
}

func (c *Client) searchURL(productName, community, format string) string {
	q := url.Values{}
	q.Set("q", productName)
	q.Set("sort", "relevance")
	q.Set("limit", fmt.Sprint(searchLimit))
	q.Set("restrict_sr", "1")
	return fmt.Sprintf("%s/r/%s/search.%s?%s", c.baseURL, url.PathEscape(community), format, q.Encode())
}
