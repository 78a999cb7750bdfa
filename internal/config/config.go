// Package config loads the service configuration from a YAML file with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full service configuration.
type Config struct {
	ListenAddr    string          `yaml:"listen_addr"`
	SearchTimeout Duration        `yaml:"search_timeout"`
	Cache         CacheConfig     `yaml:"cache"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
	Retry         RetryConfig     `yaml:"retry"`
	Providers     ProvidersConfig `yaml:"providers"`
}

// CacheConfig selects the result cache backend. An empty RedisAddr keeps
// results in process memory.
type CacheConfig struct {
	TTL       Duration `yaml:"ttl"`
	RedisAddr string   `yaml:"redis_addr"`
}

// RateLimitConfig bounds inbound requests per client IP.
type RateLimitConfig struct {
	PerIP  int      `yaml:"per_ip"`
	Window Duration `yaml:"window"`
}

// RetryConfig is the fixed-delay retry applied to providers flagged with
// retry: true.
type RetryConfig struct {
	Attempts int      `yaml:"attempts"`
	Delay    Duration `yaml:"delay"`
}

// ProvidersConfig is the provider roster, split by search vertical.
type ProvidersConfig struct {
	Hotels  []ProviderConfig `yaml:"hotels"`
	Flights []ProviderConfig `yaml:"flights"`
}

// ProviderConfig describes one upstream provider endpoint.
type ProviderConfig struct {
	ID      string   `yaml:"id"`
	URL     string   `yaml:"url"`
	Timeout Duration `yaml:"timeout"`
	RPS     float64  `yaml:"rps"`
	Retry   bool     `yaml:"retry"`
}

// Default returns the configuration used when no file is given: the local
// mock providers from cmd/provider.
func Default() Config {
	return Config{
		ListenAddr:    ":8080",
		SearchTimeout: Duration(2 * time.Second),
		Cache: CacheConfig{
			TTL: Duration(30 * time.Second),
		},
		RateLimit: RateLimitConfig{
			PerIP:  10,
			Window: Duration(time.Minute),
		},
		Retry: RetryConfig{
			Attempts: 2,
			Delay:    Duration(3500 * time.Millisecond),
		},
		Providers: ProvidersConfig{
			Hotels: []ProviderConfig{
				{ID: "hotel1", URL: "http://localhost:9001", Timeout: Duration(2 * time.Second)},
				{ID: "hotel2", URL: "http://localhost:9002", Timeout: Duration(2 * time.Second)},
			},
			Flights: []ProviderConfig{
				{ID: "flight1", URL: "http://localhost:9003", Timeout: Duration(2 * time.Second)},
				{ID: "flight2", URL: "http://localhost:9004", Timeout: Duration(2 * time.Second)},
			},
		},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.SearchTimeout.Std() <= 0 {
		return fmt.Errorf("search_timeout must be positive")
	}
	if c.RateLimit.PerIP <= 0 || c.RateLimit.Window.Std() <= 0 {
		return fmt.Errorf("rate_limit must have positive per_ip and window")
	}

	seen := make(map[string]bool)
	for _, pc := range append(append([]ProviderConfig{}, c.Providers.Hotels...), c.Providers.Flights...) {
		if pc.ID == "" {
			return fmt.Errorf("provider id is required")
		}
		if seen[pc.ID] {
			return fmt.Errorf("duplicate provider id %q", pc.ID)
		}
		seen[pc.ID] = true
		if pc.URL == "" {
			return fmt.Errorf("provider %s: url is required", pc.ID)
		}
		if pc.Timeout.Std() <= 0 {
			return fmt.Errorf("provider %s: timeout must be positive", pc.ID)
		}
	}
	return nil
}
