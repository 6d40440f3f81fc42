package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating one namespace from
// another in a shared backend such as Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ci:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(inputsHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(inputsHash, opts)
}
