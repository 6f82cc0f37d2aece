package route

import (
	"testing"

	"github.com/starford/raido/internal/rules"
)

func TestMatchLiteralSubstring(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "github.com", Destination: "/sorted/code"},
		{Pattern: "arxiv.org", Destination: "/sorted/papers"},
	}

	dest, ok := Match("https://github.com/user/repo/releases", rl)
	if !ok || dest != "/sorted/code" {
		t.Fatalf("dest = %q, ok = %v", dest, ok)
	}

	dest, ok = Match("https://arxiv.org/abs/1234.5678", rl)
	if !ok || dest != "/sorted/papers" {
		t.Fatalf("dest = %q, ok = %v", dest, ok)
	}

	if _, ok := Match("https://example.com/page", rl); ok {
		t.Error("unexpected match for unrelated origin")
	}
}

func TestMatchFirstRuleWins(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "docs.example.com", Destination: "/sorted/docs"},
		{Pattern: "example.com", Destination: "/sorted/misc"},
	}

	dest, ok := Match("https://docs.example.com/guide", rl)
	if !ok || dest != "/sorted/docs" {
		t.Fatalf("dest = %q, want /sorted/docs", dest)
	}

	// Reversed order: the broad rule shadows the specific one.
	reversed := rules.RuleList{rl[1], rl[0]}
	dest, ok = Match("https://docs.example.com/guide", reversed)
	if !ok || dest != "/sorted/misc" {
		t.Fatalf("dest = %q, want /sorted/misc with reversed order", dest)
	}
}

func TestMatchSegmentMarker(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "courses.edu/{$var}/materials", Destination: "/sorted/course"},
	}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://courses.edu/cs101/materials/week3", true},
		{"https://courses.edu/python/materials", true},
		// {$var} requires at least one character.
		{"https://courses.edu//materials", false},
		// {$var} never crosses a separator.
		{"https://courses.edu/cs101/fall/materials", false},
	}
	for _, tt := range tests {
		if _, ok := Match(tt.origin, rl); ok != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.origin, ok, tt.want)
		}
	}
}

func TestMatchRemainderMarker(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "drive.google.com/{$*}", Destination: "/sorted/drive"},
	}

	for _, origin := range []string{
		"https://drive.google.com/file/d/abc123/view",
		"https://drive.google.com/",
	} {
		dest, ok := Match(origin, rl)
		if !ok || dest != "/sorted/drive" {
			t.Errorf("Match(%q) = %q, %v", origin, dest, ok)
		}
	}
}

func TestMatchBothMarkers(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "example.com/{$var}/files/{$*}", Destination: "/sorted/files"},
	}

	if _, ok := Match("https://example.com/team/files/q3/report.pdf", rl); !ok {
		t.Error("expected match with both markers")
	}
	if _, ok := Match("https://example.com/a/b/files/x", rl); ok {
		t.Error("segment marker must not span two segments")
	}
}

func TestMatchSkipsInvalidPattern(t *testing.T) {
	// A pattern that still contains "{$" but is not a known marker
	// compiles to a literal regexp of itself and simply never matches
	// normal origins; the following rule must still be evaluated.
	rl := rules.RuleList{
		{Pattern: "weird.com/{$bogus}", Destination: "/sorted/weird"},
		{Pattern: "ok.com", Destination: "/sorted/ok"},
	}

	dest, ok := Match("https://ok.com/file", rl)
	if !ok || dest != "/sorted/ok" {
		t.Fatalf("dest = %q, ok = %v", dest, ok)
	}
}

func TestFallbackMatch(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "drive.google.com", Destination: "/sorted/google"},
		{Pattern: "github.com", Destination: "/sorted/code"},
	}

	// docs.google.com matched no rule pattern directly, but its
	// second-level label "google" appears in the first pattern.
	dest, ok := FallbackMatch("https://docs.google.com/document/d/1", rl)
	if !ok || dest != "/sorted/google" {
		t.Fatalf("dest = %q, ok = %v", dest, ok)
	}

	if _, ok := FallbackMatch("https://unrelated.net/x", rl); ok {
		t.Error("unexpected fallback match")
	}
	if _, ok := FallbackMatch("not a url at all", rl); ok {
		t.Error("unparseable origin must not match")
	}
}

func TestFallbackMatchCaseInsensitive(t *testing.T) {
	rl := rules.RuleList{
		{Pattern: "Drive.Google.com", Destination: "/sorted/google"},
	}
	if _, ok := FallbackMatch("https://files.GOOGLE.com/a", rl); !ok {
		t.Error("fallback must compare case-insensitively")
	}
}

func TestDomainLabel(t *testing.T) {
	tests := []struct {
		origin string
		want   string
	}{
		{"https://docs.example.com/page", "example"},
		{"https://example.com", "com"},
		{"https://localhost:8080/x", "localhost"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := domainLabel(tt.origin); got != tt.want {
			t.Errorf("domainLabel(%q) = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
