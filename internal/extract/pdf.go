package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text shorter than this indicates a scanned document with no real
// text layer; the caller should fall back to OCR.
const minPDFTextLen = 50

// PDF extracts the text layer of a PDF page by page. Pages that fail
// to parse are skipped rather than failing the whole document.
type PDF struct {
	MinTextLen int
}

// Extract reports absence when the document cannot be opened or its
// combined text is below MinTextLen.
func (p PDF) Extract(path string) (string, bool) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}

	out := strings.TrimSpace(sb.String())
	if len(out) < p.MinTextLen {
		return "", false
	}
	return out, true
}
