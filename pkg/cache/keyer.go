package cache

// Keyer builds cache keys for the ring engine's provider caches.
// Centralizing key construction keeps backends interchangeable and makes
// invalidation predictable.
type Keyer interface {
	// ListingKey keys a directory-listing snapshot.
	ListingKey(providerID, path string) string

	// TreeKey keys a provider's full contribution tree.
	TreeKey(providerID string, opts TreeKeyOpts) string
}

// TreeKeyOpts captures the options that change a provider's output.
type TreeKeyOpts struct {
	Mode     string // display mode the tree was built for
	MaxDepth int
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ListingKey generates a key for a directory listing.
func (k *DefaultKeyer) ListingKey(providerID, path string) string {
	return hashKey("listing", providerID, path)
}

// TreeKey generates a key for a provider tree.
func (k *DefaultKeyer) TreeKey(providerID string, opts TreeKeyOpts) string {
	return hashKey("tree", providerID, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so multiple engine instances
// can share one backend without clobbering each other.
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

// ListingKey generates a prefixed listing key.
func (k *ScopedKeyer) ListingKey(providerID, path string) string {
	return k.prefix + k.inner.ListingKey(providerID, path)
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(providerID string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(providerID, opts)
}
