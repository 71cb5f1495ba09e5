// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/evcraddock/condour/internal/db"
	"github.com/evcraddock/condour/internal/reddit"
	"github.com/evcraddock/condour/internal/relay"
	"github.com/evcraddock/condour/internal/scan"
)

// CacheOff disables the relay response cache when used as the cache DSN.
const CacheOff = "off"

// Config holds the settings shared by the scan command and the server.
type Config struct {
	BaseURL      string        `validate:"required,url"`
	Relays       []string      `validate:"min=1,dive,required"`
	RelayTimeout time.Duration `validate:"gt=0"`
	QueryDelay   time.Duration `validate:"gte=0"`
	CommentDelay time.Duration `validate:"gte=0"`
	Communities  []string      `validate:"min=1,dive,required,excludesall=/?# "`
	UserAgent    string        `validate:"required"`
	CacheDSN     string        `validate:"required"`
	CacheTTL     time.Duration `validate:"gt=0"`
	DevMode      bool
	Port         int `validate:"min=1,max=65535"`
}

// Default returns the built-in settings.
func Default() Config {
	relays := make([]string, 0, len(relay.DefaultRelays))
	for _, r := range relay.DefaultRelays {
		if r.Prefix == "" {
			relays = append(relays, relay.DirectName)
			continue
		}
		relays = append(relays, r.Prefix)
	}

	return Config{
		BaseURL:      reddit.DefaultBaseURL,
		Relays:       relays,
		RelayTimeout: 10 * time.Second,
		QueryDelay:   reddit.DefaultDelay,
		CommentDelay: scan.DefaultCommentDelay,
		Communities:  append([]string(nil), reddit.DefaultCommunities...),
		UserAgent:    "Condour/1.0 (Product Research Tool)",
		CacheDSN:     db.MemoryDSN,
		CacheTTL:     15 * time.Minute,
		Port:         8080,
	}
}

// FromEnv loads an optional .env file, applies CONDOUR_* variables over the
// defaults and validates the result.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []string

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = splitList(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = d
	}

	str("CONDOUR_BASE_URL", &cfg.BaseURL)
	list("CONDOUR_RELAYS", &cfg.Relays)
	dur("CONDOUR_RELAY_TIMEOUT", &cfg.RelayTimeout)
	dur("CONDOUR_QUERY_DELAY", &cfg.QueryDelay)
	dur("CONDOUR_COMMENT_DELAY", &cfg.CommentDelay)
	list("CONDOUR_COMMUNITIES", &cfg.Communities)
	str("CONDOUR_USER_AGENT", &cfg.UserAgent)
	str("CONDOUR_CACHE_DSN", &cfg.CacheDSN)
	dur("CONDOUR_CACHE_TTL", &cfg.CacheTTL)

	if v, ok := lookup("CONDOUR_DEV_MODE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("CONDOUR_DEV_MODE: %v", err))
		}
		cfg.DevMode = b
	}
	if v, ok := lookup("CONDOUR_PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("CONDOUR_PORT: %v", err))
		}
		cfg.Port = p
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CacheEnabled reports whether relay responses should be cached.
func (c Config) CacheEnabled() bool {
	return c.CacheDSN != CacheOff
}

// RelayList returns the configured relays in order.
func (c Config) RelayList() []relay.Relay {
	return relay.ParseRelays(c.Relays)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
