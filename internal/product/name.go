// Package product derives a searchable product name from a URL or free text.
package product

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// amazonPath matches /<slug>/dp/<ASIN>.
	amazonPath = regexp.MustCompile(`/([^/]+)/dp/[A-Z0-9]{10}`)
	nonWord    = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// ExtractName returns the product name for a URL or bare phrase.
// Input that does not look like a URL is returned trimmed. Anything that
// cannot be parsed also falls back to the trimmed input.
func ExtractName(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.Contains(trimmed, "http") && !strings.Contains(trimmed, ".") {
		return trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return trimmed
	}

	if strings.Contains(strings.ToLower(u.Hostname()), "amazon") {
		if m := amazonPath.FindStringSubmatch(u.Path); m != nil {
			return CleanName(m[1])
		}
	}

	var segments []string
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return trimmed
	}

	return CleanName(segments[len(segments)-1])
}

// CleanName turns a URL slug into a space separated name.
func CleanName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = nonWord.ReplaceAllString(name, "")
	name = spaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
