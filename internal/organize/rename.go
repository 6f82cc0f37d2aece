package organize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/extract"
	"github.com/starford/raido/internal/rules"
)

// EligibleForRename reports whether path may be AI-renamed: renaming
// must be enabled and the file's directory must equal, or be nested
// under, one of the configured rename directories. The prefix test is
// segment-aware, so /docs2 does not match a configured /docs.
func (o *Organizer) EligibleForRename(path string, rs *rules.Ruleset) bool {
	if !rs.Settings.RenameByAI {
		return false
	}
	dir := filepath.Clean(filepath.Dir(path))
	for _, prefix := range rs.Schema.Rename {
		if prefix == "" {
			continue
		}
		if isPathPrefix(prefix, dir) {
			return true
		}
	}
	return false
}

func isPathPrefix(prefix, dir string) bool {
	prefix = filepath.Clean(prefix)
	if dir == prefix {
		return true
	}
	sep := string(os.PathSeparator)
	if prefix == sep {
		return strings.HasPrefix(dir, sep)
	}
	return strings.HasPrefix(dir, prefix+sep)
}

// RenameWithAI runs the full rename orchestration for one path:
// classify, extract, request a candidate from the naming backend,
// sanitize, and apply on disk. It returns the new path. Every failure
// aborts with the file untouched; callers on the event pipeline treat
// errors as skips while the control surface forwards them to the user.
func (o *Organizer) RenameWithAI(ctx context.Context, path string, rs *rules.Ruleset) (string, error) {
	kind := extract.Classify(path)

	var candidate string
	var err error
	switch kind {
	case extract.KindImage:
		candidate, err = o.gen.NameFromImage(ctx, path)

	case extract.KindPDF:
		content, ok := extract.ForKind(kind).Extract(path)
		if !ok {
			// No usable text layer: likely a scanned document.
			content, err = o.gen.ExtractText(ctx, path)
			if err != nil {
				return "", fmt.Errorf("organize: ocr fallback: %w", err)
			}
		}
		candidate, err = o.gen.NameFromText(ctx, content, kind.Label())

	case extract.KindSlides, extract.KindText:
		content, ok := extract.ForKind(kind).Extract(path)
		if !ok {
			return "", fmt.Errorf("organize: no extractable content in %s", filepath.Base(path))
		}
		candidate, err = o.gen.NameFromText(ctx, content, kind.Label())

	default:
		return "", fmt.Errorf("organize: %s: %w", filepath.Base(path), apperr.ErrUnsupportedType)
	}
	if err != nil {
		return "", fmt.Errorf("organize: name generation: %w", err)
	}

	name := SanitizeName(candidate)
	if name == "" {
		return "", fmt.Errorf("organize: candidate %q sanitized to empty", candidate)
	}

	newPath, err := applyRename(path, name)
	if err != nil {
		return "", err
	}
	if newPath == path {
		return path, nil
	}

	// The watcher re-announces the old name on some platforms; make
	// sure that echo is not reprocessed.
	o.suppress.Add(path)
	o.noteRenamed(path, newPath)
	return newPath, nil
}

// applyRename renames path to newName in place, preserving the
// extension. A collision with an existing file is resolved with a
// timestamp disambiguator instead of overwriting.
func applyRename(path, newName string) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)

	target := filepath.Join(dir, newName+ext)
	if target == path {
		return path, nil
	}
	if _, err := os.Stat(target); err == nil {
		stamp := time.Now().Format("20060102-150405")
		target = filepath.Join(dir, fmt.Sprintf("%s-%s%s", newName, stamp, ext))
	}

	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("organize: rename on disk: %w", err)
	}
	return target, nil
}
