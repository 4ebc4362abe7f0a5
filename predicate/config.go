package predicate

// Config holds configuration for a Translator.
type Config struct {
	// CacheShards is the number of shards backing the template cache.
	// Higher values reduce lock contention when many goroutines translate
	// distinct predicate shapes concurrently.
	// Default: 16
	// Max: 256
	CacheShards int

	// CacheDisabled turns template caching off entirely, so every call walks
	// and validates the tree. Intended for debugging and tests; translation
	// stays correct either way.
	CacheDisabled bool
}

// DefaultConfig returns sensible defaults for typical query workloads.
func DefaultConfig() Config {
	return Config{
		CacheShards: 16,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.CacheShards < 1 {
		c.CacheShards = 1
	}
	if c.CacheShards > 256 {
		c.CacheShards = 256
	}
}
