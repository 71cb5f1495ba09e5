package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evcraddock/condour/internal/cache"
	"github.com/evcraddock/condour/internal/config"
	"github.com/evcraddock/condour/internal/db"
	"github.com/evcraddock/condour/internal/reddit"
	"github.com/evcraddock/condour/internal/relay"
	"github.com/evcraddock/condour/internal/scan"
)

// scanStack is the scan service with the resources behind it.
type scanStack struct {
	service *scan.Service
	cache   *cache.Repository // nil when caching is off
	close   func()
}

// newScanStack wires the relay client, forum client and optional response
// cache from cfg.
func newScanStack(cfg config.Config) (*scanStack, error) {
	st := &scanStack{close: func() {}}
	opts := []relay.Option{
		relay.WithTimeout(cfg.RelayTimeout),
		relay.WithUserAgent(cfg.UserAgent),
	}

	if cfg.CacheEnabled() {
		database, err := db.Open(cfg.CacheDSN)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		st.cache = cache.NewRepository(database, cfg.CacheTTL)
		st.close = func() {
			if err := database.Close(); err != nil {
				slog.Warn("closing cache database", "error", err)
			}
		}
		opts = append(opts, relay.WithCache(st.cache))
	}

	fetcher := relay.New(cfg.RelayList(), opts...)
	forum := reddit.New(fetcher,
		reddit.WithBaseURL(cfg.BaseURL),
		reddit.WithCommunities(cfg.Communities),
		reddit.WithDelay(cfg.QueryDelay),
	)
	st.service = scan.NewService(forum, scan.WithCommentDelay(cfg.CommentDelay))

	relayNames := make([]string, 0, len(cfg.Relays))
	for _, r := range fetcher.Relays() {
		relayNames = append(relayNames, r.Name)
	}
	slog.Debug("scan stack ready",
		"relays", relayNames,
		"communities", forum.Communities(),
		"cache", st.cache != nil,
	)
	return st, nil
}

// purgeLoop removes expired cache entries every interval until ctx is done.
func purgeLoop(ctx context.Context, repo *cache.Repository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCache(ctx, repo)
		}
	}
}

// purgeCache drops expired entries and logs what is left.
func purgeCache(ctx context.Context, repo *cache.Repository) {
	removed, err := repo.Purge(ctx)
	if err != nil {
		slog.Warn("purging relay cache", "error", err)
		return
	}
	remaining, err := repo.Len(ctx)
	if err != nil {
		slog.Warn("counting relay cache", "error", err)
		return
	}
	slog.Debug("purged relay cache", "removed", removed, "remaining", remaining)
}
