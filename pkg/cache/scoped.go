package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple tenants or
// deployments can share one backend without key collisions.
//
// Example usage:
//
//	// Per-requester keys for private repositories
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Shared keys for public analyses
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer falls back to the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed key for an analysis result.
func (k *ScopedKeyer) AnalysisKey(docHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(docHash, opts)
}

// GraphKey generates a prefixed key for serialized graph data.
func (k *ScopedKeyer) GraphKey(docHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.GraphKey(docHash, opts)
}

// RenderKey generates a prefixed key for a rendered visualization.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
