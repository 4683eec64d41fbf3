package recurrence

import (
	"time"
)

// EngineConfig holds configuration options for the recurrence engine.
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig
}

// DefaultEngineConfig provides sensible defaults for production use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
}

// LowMemoryConfig is tuned for memory-constrained environments.
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},
}

// DisabledCacheConfig turns off caching entirely. Every call recomputes;
// useful when rules are never queried twice with the same window.
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
}
