package config

import "time"

// Default returns the default configuration. ProjectID is left empty.
func Default() *Config {
	return &Config{
		Concurrency: 20,
		RateLimit:   10,
		Timeout:     30 * time.Second,
		Breaker: BreakerConfig{
			MinRequests:  10,
			FailureRatio: 0.6,
			OpenTimeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
