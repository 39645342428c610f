// Package config handles toolkit configuration.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional config file, CARDAKIT_* environment variables and command-line
// flags. The API credential may also be given as BLOCKFROST_PROJECT_ID.
package config

import (
	"time"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// Config holds runtime settings for the provider and the CLI.
type Config struct {
	// Network is optional. When set it must agree with the network encoded
	// in ProjectID.
	Network   types.Network
	ProjectID string
	// Endpoint overrides the public API URL (self-hosted or tests).
	Endpoint string

	// Concurrency bounds simultaneous remote calls.
	Concurrency int
	// RateLimit is requests per second. Zero disables pacing.
	RateLimit int
	// Timeout bounds each HTTP request.
	Timeout time.Duration

	Breaker BreakerConfig
	Cache   CacheConfig
	Log     LogConfig
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
}

// CacheConfig selects the store for immutable script data.
type CacheConfig struct {
	Backend string // memory or badger, both in-process
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
	JSON  bool
}

// Setting keys. Nested keys map to CARDAKIT_<SECTION>_<NAME> variables.
const (
	KeyNetwork             = "network"
	KeyProjectID           = "project_id"
	KeyEndpoint            = "endpoint"
	KeyConcurrency         = "concurrency"
	KeyRateLimit           = "rate_limit"
	KeyTimeout             = "timeout"
	KeyBreakerMinRequests  = "breaker.min_requests"
	KeyBreakerFailureRatio = "breaker.failure_ratio"
	KeyBreakerOpenTimeout  = "breaker.open_timeout"
	KeyCacheBackend        = "cache.backend"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
	KeyLogJSON             = "log.json"
)
