//go:build linux

package provenance

func newPlatform() Resolver { return Xattr{} }
