package organize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// placeFile moves src (named filename) into destDir. It returns the
// new path, or "" when no move happened: a same-named file already at
// the destination is either removed at the source (removeDuplicate)
// or left where it is. Re-placing an already-placed file is a no-op.
func (o *Organizer) placeFile(src, filename, destDir string, removeDuplicate bool) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("organize: create destination: %w", err)
	}

	dest := filepath.Join(destDir, filename)
	if dest == src {
		return "", nil
	}

	if _, err := os.Stat(dest); err == nil {
		if removeDuplicate {
			if err := os.Remove(src); err != nil {
				return "", fmt.Errorf("organize: remove duplicate: %w", err)
			}
			o.log.Info("duplicate removed",
				slog.String("file", filename),
				slog.String("destination", destDir))
		} else {
			o.log.Info("duplicate exists, source left in place",
				slog.String("file", filename),
				slog.String("destination", destDir))
		}
		return "", nil
	}

	if err := moveFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// moveFile renames src to dest, falling back to copy+remove when the
// destination sits on another filesystem.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("organize: open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("organize: stat source: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("organize: create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("organize: copy: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("organize: close destination: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("organize: remove source after copy: %w", err)
	}
	return nil
}
