package organize

import "strings"

// maxNameLen is the cap applied to sanitized candidate names,
// excluding the extension.
const maxNameLen = 80

// SanitizeName normalizes a model-proposed filename: every character
// outside [a-z0-9_] becomes an underscore, runs of underscores
// collapse, edges are trimmed, and the result is truncated to
// maxNameLen with trailing separators stripped. Idempotent.
func SanitizeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	prevUnderscore := false
	for _, r := range strings.ToLower(name) {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ok {
			if prevUnderscore {
				continue
			}
			sb.WriteByte('_')
			prevUnderscore = true
			continue
		}
		sb.WriteRune(r)
		prevUnderscore = false
	}

	out := strings.Trim(sb.String(), "_")
	if len(out) > maxNameLen {
		out = strings.TrimRight(out[:maxNameLen], "-_")
	}
	return out
}
