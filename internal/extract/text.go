package extract

import (
	"os"
	"strings"
	"unicode/utf8"
)

// Text reads a plain-text file whole. Non-UTF-8 content is decoded as
// Latin-1 so legacy exports still yield usable text.
type Text struct{}

// Extract reports absence for unreadable or empty files.
func (Text) Extract(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var s string
	if utf8.Valid(data) {
		s = string(data)
	} else {
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		s = string(runes)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
