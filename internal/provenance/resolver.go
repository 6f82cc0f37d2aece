// Package provenance recovers the origin of a downloaded file from
// host metadata. Resolution is best-effort: any failure (attribute
// missing, tool unavailable, I/O error) reports "no provenance", never
// an error, and callers treat absence as a skip condition.
package provenance

// Resolver reports where a file came from, typically the URL of the
// page it was downloaded from.
type Resolver interface {
	Resolve(path string) (origin string, ok bool)
}

// New returns the resolver for the current host platform.
func New() Resolver {
	return newPlatform()
}

// Nop is a resolver that never finds provenance, for platforms without
// a download-metadata mechanism and for tests.
type Nop struct{}

// Resolve always reports absence.
func (Nop) Resolve(string) (string, bool) { return "", false }
