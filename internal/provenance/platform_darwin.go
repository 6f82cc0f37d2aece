//go:build darwin

package provenance

func newPlatform() Resolver { return MDLS{} }
