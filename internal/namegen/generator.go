// Package namegen asks a local model for descriptive filenames.
// The backend is Ollama's chat API; responses are constrained to a
// one-field JSON object so a candidate name can be parsed reliably.
package namegen

import "context"

// Generator is the naming backend capability consumed by the
// organizer. Implementations block until the backend answers or the
// context expires; callers treat any error as a skip, not a fault.
type Generator interface {
	// NameFromText proposes a filename for textual content.
	// contentType is a human label like "PDF" or "slide deck".
	NameFromText(ctx context.Context, content, contentType string) (string, error)
	// NameFromImage proposes a filename by describing the image at path.
	NameFromImage(ctx context.Context, path string) (string, error)
	// ExtractText runs the OCR model over the file at path and returns
	// the recognized text, for documents without a text layer.
	ExtractText(ctx context.Context, path string) (string, error)
}
