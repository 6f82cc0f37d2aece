// Package route matches an origin identifier (typically the referring
// page URL of a download) against ordered routing rules to find a
// destination directory.
package route

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/starford/raido/internal/rules"
)

// Marker tokens allowed in rule patterns. {$var} matches one or more
// non-separator characters (a single path segment); {$*} matches any
// remainder including separators.
const (
	segmentMarker   = "{$var}"
	remainderMarker = "{$*}"
)

// Match evaluates rules in declaration order and returns the
// destination of the first rule whose pattern is found in origin.
// Patterns are not anchored: a hit anywhere in the origin counts.
// Rules with invalid patterns are skipped.
func Match(origin string, rl rules.RuleList) (string, bool) {
	for _, r := range rl {
		if strings.Contains(r.Pattern, "{$") {
			re, err := compile(r.Pattern)
			if err != nil {
				continue
			}
			if re.MatchString(origin) {
				return r.Destination, true
			}
		} else if strings.Contains(origin, r.Pattern) {
			return r.Destination, true
		}
	}
	return "", false
}

// FallbackMatch routes an origin that matched no rule by its
// second-level domain label: docs.example.com -> "example", scanned
// case-insensitively against every configured pattern.
//
// The scan is deliberately permissive (all patterns, substring match,
// first hit wins) to stay compatible with existing rule documents;
// a label like "drive" will happily match a "drive.google.com" rule.
func FallbackMatch(origin string, rl rules.RuleList) (string, bool) {
	label := domainLabel(origin)
	if label == "" {
		return "", false
	}
	label = strings.ToLower(label)
	for _, r := range rl {
		if strings.Contains(strings.ToLower(r.Pattern), label) {
			return r.Destination, true
		}
	}
	return "", false
}

// compile turns a marker pattern into an unanchored regexp: literals
// are quoted, {$var} becomes one-or-more non-slash characters, {$*}
// becomes any remainder. Both markers may appear in one pattern.
func compile(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, regexp.QuoteMeta(segmentMarker), `[^/]+`)
	quoted = strings.ReplaceAll(quoted, regexp.QuoteMeta(remainderMarker), `.*`)
	return regexp.Compile(quoted)
}

// domainLabel returns the label at index 1 of the origin's host
// (the second-level label for common host shapes), or the whole host
// when it has a single label. Empty when origin has no parseable host.
func domainLabel(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}
	parts := strings.Split(host, ".")
	if len(parts) > 1 {
		return parts[1]
	}
	return host
}
