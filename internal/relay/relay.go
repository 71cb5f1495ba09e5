// Package relay fetches upstream documents through an ordered list of
// proxy endpoints, falling through to the next relay when one fails.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Condour/1.0 (Product Research Tool)"

	// DefaultBodyLimit caps the response body read from any relay.
	DefaultBodyLimit = 8 << 20

	// DirectName is the relay entry that fetches the target without a proxy.
	DirectName = "direct"
)

// Relay is a proxy endpoint. The target URL is query-escaped and appended
// to Prefix. An empty Prefix fetches the target directly.
type Relay struct {
	Name   string
	Prefix string
}

// Wrap returns the URL to request for target through this relay.
func (r Relay) Wrap(target string) string {
	if r.Prefix == "" {
		return target
	}
	return r.Prefix + url.QueryEscape(target)
}

// DefaultRelays is the built-in relay order.
var DefaultRelays = []Relay{
	{Name: DirectName},
	{Name: "corsproxy.io", Prefix: "https://corsproxy.io/?"},
	{Name: "cors-anywhere.herokuapp.com", Prefix: "https://cors-anywhere.herokuapp.com/"},
	{Name: "api.allorigins.win", Prefix: "https://api.allorigins.win/raw?url="},
}

// ParseRelays builds relays from prefix strings. The literal "direct"
// yields a relay without a proxy; blank entries are ignored.
func ParseRelays(specs []string) []Relay {
	var relays []Relay
	for _, s := range specs {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			continue
		case s == DirectName:
			relays = append(relays, Relay{Name: DirectName})
		default:
			name := s
			if u, err := url.Parse(s); err == nil && u.Host != "" {
				name = u.Host
			}
			relays = append(relays, Relay{Name: name, Prefix: s})
		}
	}
	return relays
}

// Cache stores successful response bodies keyed by target URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Client performs GETs through relays. It holds no per-call state, so a
// single Client may serve concurrent scans.
type Client struct {
	http   *resty.Client
	relays []Relay
	cache  Cache
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-relay request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithUserAgent sets the User-Agent header sent to every relay.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.http.SetHeader("User-Agent", ua)
		}
	}
}

// WithBodyLimit sets the largest response body accepted from a relay.
// A larger body counts as a failed attempt.
func WithBodyLimit(n int) Option {
	return func(c *Client) { c.http.SetResponseBodyLimit(n) }
}

// WithCache enables the response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithHTTPClient replaces the underlying resty client.
func WithHTTPClient(rc *resty.Client) Option {
	return func(c *Client) { c.http = rc }
}

// New creates a relay client that tries relays in the given order.
func New(relays []Relay, opts ...Option) *Client {
	rc := resty.New()
	rc.SetTimeout(defaultTimeout)
	rc.SetHeader("User-Agent", defaultUserAgent)
	rc.SetResponseBodyLimit(DefaultBodyLimit)

	c := &Client{
		http:   rc,
		relays: append([]Relay(nil), relays...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Relays returns a copy of the configured relay order.
func (c *Client) Relays() []Relay {
	return append([]Relay(nil), c.relays...)
}

// Validator is implemented by decode targets that check their own shape.
// A validation failure moves on to the next relay.
type Validator interface {
	Validate() error
}

// FetchJSON fetches target and decodes the first response that parses as
// JSON into v. If v implements Validator it must also validate.
func (c *Client) FetchJSON(ctx context.Context, target string, v any) error {
	return c.fetch(ctx, target, func(body []byte) error {
		if !json.Valid(body) {
			return fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if val, ok := v.(Validator); ok {
			if err := val.Validate(); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
		}
		return nil
	})
}

// FetchFeed fetches target and parses the first response that is a valid
// RSS or Atom document.
func (c *Client) FetchFeed(ctx context.Context, target string) (*gofeed.Feed, error) {
	var feed *gofeed.Feed
	err := c.fetch(ctx, target, func(body []byte) error {
		f, err := gofeed.NewParser().Parse(bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		// gofeed also accepts JSON Feed; only XML feeds are expected here.
		if f.FeedType != "rss" && f.FeedType != "atom" {
			return fmt.Errorf("%w: unexpected feed type %q", ErrMalformedResponse, f.FeedType)
		}
		feed = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}

// fetch tries each relay once, in order, and stops at the first body that
// parse accepts.
func (c *Client) fetch(ctx context.Context, target string, parse func([]byte) error) error {
	if body, ok := c.cached(ctx, target); ok {
		if err := parse(body); err == nil {
			return nil
		}
	}

	exhausted := &ExhaustedError{Target: target}
	for _, r := range c.relays {
		exhausted.Attempts++

		body, err := c.get(ctx, r.Wrap(target))
		if err == nil {
			err = parse(body)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			slog.Debug("relay attempt failed", "relay", r.Name, "target", target, "error", err)
			exhausted.Last = err
			continue
		}

		c.store(ctx, target, body)
		return nil
	}

	return exhausted
}

// get issues a single GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("reading relay cache", "target", key, "error", err)
		return nil, false
	}
	return body, ok
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, key, body); err != nil {
		slog.Warn("writing relay cache", "target", key, "error", err)
	}
}
