package period

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// EngineConfig holds configuration options for the recurrence engine
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// Bounds
	MaxWindow      time.Duration // Longest window enumerated; the end is clamped beyond it (0 = no clamp)
	MaxOccurrences int           // Maximum dates returned by Occurrences (0 = unlimited)
}

// DefaultEngineConfig provides sensible defaults for production use
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,

	MaxWindow:      100 * 366 * day,
	MaxOccurrences: 10000,
}

// HighPerformanceConfig is optimized for repeated queries over the same rules
var HighPerformanceConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             30 * time.Minute,
		MaxEntries:      5000,
		CleanupInterval: 10 * time.Minute,
	},

	MaxWindow:      10 * 366 * day,
	MaxOccurrences: 5000,
}

// LowMemoryConfig is optimized for memory-constrained environments
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},

	MaxWindow:      10 * 366 * day,
	MaxOccurrences: 1000,
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
	CacheConfig:  CacheConfig{}, // Not used

	MaxWindow:      100 * 366 * day,
	MaxOccurrences: 10000,
}

// ConfigByName returns one of the preset configurations: "default",
// "high-performance", "low-memory" or "no-cache".
func ConfigByName(name string) (EngineConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultEngineConfig, nil
	case "high-performance":
		return HighPerformanceConfig, nil
	case "low-memory":
		return LowMemoryConfig, nil
	case "no-cache", "disabled":
		return DisabledCacheConfig, nil
	default:
		return EngineConfig{}, fmt.Errorf("unknown engine preset %q", name)
	}
}
