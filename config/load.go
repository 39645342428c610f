package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CARDAKIT"

// ProjectIDEnv is accepted as an alias for CARDAKIT_PROJECT_ID.
const ProjectIDEnv = "BLOCKFROST_PROJECT_ID"

// FlagNames maps setting keys to the command-line flags Load binds when
// present in the flag set.
var FlagNames = map[string]string{
	KeyNetwork:      "network",
	KeyProjectID:    "project-id",
	KeyEndpoint:     "endpoint",
	KeyConcurrency:  "concurrency",
	KeyRateLimit:    "rate-limit",
	KeyTimeout:      "timeout",
	KeyCacheBackend: "cache",
	KeyLogLevel:     "log-level",
	KeyLogFile:      "log-file",
	KeyLogJSON:      "log-json",
}

// Load reads the configuration. path may be empty; flags may be nil. The
// result is validated.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	if err := v.BindEnv(KeyProjectID, EnvPrefix+"_PROJECT_ID", ProjectIDEnv); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range FlagNames {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := fromViper(v)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault(KeyNetwork, string(d.Network))
	v.SetDefault(KeyProjectID, d.ProjectID)
	v.SetDefault(KeyEndpoint, d.Endpoint)
	v.SetDefault(KeyConcurrency, d.Concurrency)
	v.SetDefault(KeyRateLimit, d.RateLimit)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyBreakerMinRequests, d.Breaker.MinRequests)
	v.SetDefault(KeyBreakerFailureRatio, d.Breaker.FailureRatio)
	v.SetDefault(KeyBreakerOpenTimeout, d.Breaker.OpenTimeout)
	v.SetDefault(KeyCacheBackend, d.Cache.Backend)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFile, d.Log.File)
	v.SetDefault(KeyLogJSON, d.Log.JSON)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Network:     types.Network(strings.ToLower(strings.TrimSpace(v.GetString(KeyNetwork)))),
		ProjectID:   v.GetString(KeyProjectID),
		Endpoint:    v.GetString(KeyEndpoint),
		Concurrency: v.GetInt(KeyConcurrency),
		RateLimit:   v.GetInt(KeyRateLimit),
		Timeout:     v.GetDuration(KeyTimeout),
		Breaker: BreakerConfig{
			MinRequests:  v.GetUint32(KeyBreakerMinRequests),
			FailureRatio: v.GetFloat64(KeyBreakerFailureRatio),
			OpenTimeout:  v.GetDuration(KeyBreakerOpenTimeout),
		},
		Cache: CacheConfig{
			Backend: v.GetString(KeyCacheBackend),
		},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
			JSON:  v.GetBool(KeyLogJSON),
		},
	}
}
