package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Slides extracts text runs from a .pptx deck (a zip of XML parts).
// Legacy binary .ppt files cannot be opened as a zip and report
// absence.
type Slides struct{}

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extract concatenates every text run of every slide in slide order.
func (Slides) Extract(path string) (string, bool) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", false
	}
	defer r.Close()

	type part struct {
		n int
		f *zip.File
	}
	var parts []part
	for _, f := range r.File {
		m := slidePartRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		parts = append(parts, part{n: n, f: f})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })

	var sb strings.Builder
	for _, p := range parts {
		rc, err := p.f.Open()
		if err != nil {
			continue
		}
		runs := textRuns(rc)
		rc.Close()
		for _, run := range runs {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(run)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", false
	}
	return out, true
}

// textRuns collects the character data of every <a:t> element in a
// slide part.
func textRuns(r io.Reader) []string {
	dec := xml.NewDecoder(r)
	var out []string
	depth := 0 // nesting inside <a:t>
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == "t" && depth > 0 {
				depth--
			}
		case xml.CharData:
			if depth > 0 {
				if s := strings.TrimSpace(string(t)); s != "" {
					out = append(out, s)
				}
			}
		}
	}
}
