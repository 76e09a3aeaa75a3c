package project

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidLink marks a links map that fails validation.
var ErrInvalidLink = errors.New("invalid link")

// DefaultLinkKeys are the link slots the dashboard offers to fill in.
var DefaultLinkKeys = []string{"demo", "video", "github", "license", "documentation"}

// ValidateLink checks a single key/URL pair. An empty URL is allowed.
func ValidateLink(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidLink)
	}
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %s: %q is not an absolute URL", ErrInvalidLink, key, value)
	}
	return nil
}

// ValidateLinks checks every entry of links.
func ValidateLinks(links map[string]string) error {
	seen := make(map[string]struct{}, len(links))
	for key, value := range links {
		trimmed := strings.TrimSpace(key)
		if _, ok := seen[trimmed]; ok {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidLink, trimmed)
		}
		seen[trimmed] = struct{}{}
		if err := ValidateLink(key, value); err != nil {
			return err
		}
	}
	return nil
}

// WithDefaultLinks returns a copy of links with every default key present.
// Existing values are kept.
func WithDefaultLinks(links map[string]string) map[string]string {
	out := make(map[string]string, len(links)+len(DefaultLinkKeys))
	for k, v := range links {
		out[k] = v
	}
	for _, key := range DefaultLinkKeys {
		if _, ok := out[key]; !ok {
			out[key] = ""
		}
	}
	return out
}
