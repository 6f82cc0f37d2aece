package organize

import "strings"

// Partial-download markers used by browsers and download managers.
// Files carrying these suffixes are still being written and are
// ignored entirely; the finished file arrives under its final name.
var transientSuffixes = []string{
	".crdownload",
	".tmp",
	".part",
	".partial",
	".download",
}

func isTransient(filename string) bool {
	for _, suffix := range transientSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}
