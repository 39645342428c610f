package config

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/cardakit/internal/storage"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// Validate checks cfg for operator mistakes and fills Network from the
// project id.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	if cfg.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	net, err := types.NetworkFromProjectID(cfg.ProjectID)
	if err != nil {
		return fmt.Errorf("project_id: %w", err)
	}
	if cfg.Network != "" {
		want, err := types.ParseNetwork(string(cfg.Network))
		if err != nil {
			return fmt.Errorf("network: %w", err)
		}
		if want != net {
			return fmt.Errorf("%w: network is %s but project_id is for %s", types.ErrNetworkMismatch, want, net)
		}
	}
	cfg.Network = net

	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency: %w: %d", types.ErrInvalidConcurrency, cfg.Concurrency)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if cfg.Breaker.FailureRatio <= 0 || cfg.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1]")
	}
	if cfg.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("breaker.open_timeout must be positive")
	}

	switch cfg.Cache.Backend {
	case "":
		cfg.Cache.Backend = storage.BackendMemory
	case storage.BackendMemory, storage.BackendBadger:
	default:
		return fmt.Errorf("cache.backend must be %s or %s", storage.BackendMemory, storage.BackendBadger)
	}
	return nil
}
