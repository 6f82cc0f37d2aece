// Package extract classifies files by extension and pulls best-effort
// plain text out of the supported formats. Extraction never errors:
// a failed or too-weak extraction reports absence and the caller skips.
package extract

import (
	"path/filepath"
	"strings"
)

// Kind is the content category of a file.
type Kind string

const (
	KindImage       Kind = "image"
	KindPDF         Kind = "pdf"
	KindSlides      Kind = "slides"
	KindText        Kind = "text"
	KindUnsupported Kind = "unsupported"
)

var kindByExt = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,
	".webp": KindImage,
	".tiff": KindImage,
	".pdf":  KindPDF,
	".ppt":  KindSlides,
	".pptx": KindSlides,
	".txt":  KindText,
}

// Classify maps a path to its content kind by extension.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := kindByExt[ext]; ok {
		return k
	}
	return KindUnsupported
}

// Label is the human-readable content-type label used in naming
// prompts ("PDF", "slide deck", ...). Empty for kinds without one.
func (k Kind) Label() string {
	switch k {
	case KindPDF:
		return "PDF"
	case KindSlides:
		return "slide deck"
	case KindText:
		return "text file"
	default:
		return ""
	}
}

// Extractor pulls plain text from one file format. The bool result is
// false when extraction failed or produced too little signal to be
// useful.
type Extractor interface {
	Extract(path string) (string, bool)
}

// ForKind selects the extractor for a content kind. Kinds without a
// textual extraction (images, unsupported) get a Null extractor.
func ForKind(k Kind) Extractor {
	switch k {
	case KindPDF:
		return PDF{MinTextLen: minPDFTextLen}
	case KindSlides:
		return Slides{}
	case KindText:
		return Text{}
	default:
		return Null{}
	}
}

// Null is the extractor for kinds that have no textual content.
type Null struct{}

// Extract always reports absence.
func (Null) Extract(string) (string, bool) { return "", false }
