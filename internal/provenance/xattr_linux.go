//go:build linux

package provenance

import "golang.org/x/sys/unix"

// Xattr resolves provenance from the freedesktop download attributes
// that Linux browsers set on saved files. The referrer attribute is
// preferred for the same reason mdls uses the second WhereFroms entry:
// it names the page, not the raw download endpoint.
type Xattr struct{}

var xattrNames = []string{"user.xdg.referrer.url", "user.xdg.origin.url"}

// Resolve reads the download attributes, first match wins.
func (Xattr) Resolve(path string) (string, bool) {
	buf := make([]byte, 1024)
	for _, name := range xattrNames {
		n, err := unix.Getxattr(path, name, buf)
		if err != nil || n <= 0 {
			continue
		}
		return string(buf[:n]), true
	}
	return "", false
}
