package provenance

import (
	"os/exec"
	"strings"
)

// MDLS resolves provenance through the macOS Spotlight metadata tool.
// The kMDItemWhereFroms attribute stores an ordered list: first the
// direct download link, second the page the download was started from.
// The second entry is the one useful for routing; the first often
// points at a temporary or content-addressed endpoint.
type MDLS struct{}

// Resolve runs mdls and extracts the referring page URL.
func (MDLS) Resolve(path string) (string, bool) {
	out, err := exec.Command("mdls", "-name", "kMDItemWhereFroms", path).Output()
	if err != nil {
		return "", false
	}
	return parseWhereFroms(string(out))
}

// parseWhereFroms picks the second entry of an mdls attribute dump:
//
//	kMDItemWhereFroms = (
//	    "https://dl.example.com/f.pdf",
//	    "https://example.com/page"
//	)
//
// Absent attribute, "(null)", or fewer than two entries all report
// no provenance.
func parseWhereFroms(out string) (string, bool) {
	start := strings.Index(out, "(")
	end := strings.LastIndex(out, ")")
	if start < 0 || end <= start {
		return "", false
	}

	var entries []string
	for _, line := range strings.Split(out[start+1:end], "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
			entries = append(entries, line[1:len(line)-1])
		}
	}
	if len(entries) < 2 {
		return "", false
	}
	return entries[1], true
}
