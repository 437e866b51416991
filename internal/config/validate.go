package config

import (
	"fmt"
	"os"

	"github.com/zsiec/smpte/pkg/timecode"
)

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if c.Generators.Backend == "redis" {
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis config: %w", err)
		}
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Timecode.Validate(); err != nil {
		return fmt.Errorf("timecode config: %w", err)
	}

	if err := c.Generators.Validate(); err != nil {
		return fmt.Errorf("generators config: %w", err)
	}

	return nil
}

func (s *ServerConfig) Validate() error {
	if s.HTTPPort < 1 || s.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", s.HTTPPort)
	}

	if s.EnableHTTP3 {
		if s.HTTP3Port < 1 || s.HTTP3Port > 65535 {
			return fmt.Errorf("invalid HTTP3 port: %d", s.HTTP3Port)
		}

		if s.TLSCertFile == "" {
			return fmt.Errorf("TLS certificate file is required")
		}

		if s.TLSKeyFile == "" {
			return fmt.Errorf("TLS key file is required")
		}

		// Check if certificate files exist
		if _, err := os.Stat(s.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", s.TLSCertFile)
		}

		if _, err := os.Stat(s.TLSKeyFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", s.TLSKeyFile)
		}
	}

	if err := s.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}

	return nil
}

func (r *RateLimitConfig) Validate() error {
	if !r.Enabled {
		return nil
	}

	if r.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}

	if r.Burst <= 0 {
		return fmt.Errorf("burst must be positive")
	}

	if r.MaxClients <= 0 {
		return fmt.Errorf("max_clients must be positive")
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if len(r.Addresses) == 0 {
		return fmt.Errorf("at least one Redis address is required")
	}

	// The generator scripts touch keys in several hash slots, so only a
	// single node is supported.
	if len(r.Addresses) > 1 {
		return fmt.Errorf("exactly one Redis address is supported, got %d", len(r.Addresses))
	}

	if r.DB < 0 {
		return fmt.Errorf("invalid Redis database number: %d", r.DB)
	}

	if r.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if r.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive")
	}

	if r.MinIdleConns < 0 {
		return fmt.Errorf("min_idle_conns cannot be negative")
	}

	if r.MinIdleConns > r.PoolSize {
		return fmt.Errorf("min_idle_conns cannot be greater than pool_size")
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"panic": true,
		"fatal": true,
		"error": true,
		"warn":  true,
		"info":  true,
		"debug": true,
		"trace": true,
	}

	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text'")
	}

	if l.Output != "stdout" && l.Output != "stderr" {
		if l.MaxSize <= 0 {
			return fmt.Errorf("max_size must be positive for file output")
		}
		if l.MaxBackups < 0 {
			return fmt.Errorf("max_backups cannot be negative")
		}
		if l.MaxAge < 0 {
			return fmt.Errorf("max_age cannot be negative")
		}
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.Port < 1 || m.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", m.Port)
		}

		if m.Path == "" {
			return fmt.Errorf("metrics path cannot be empty")
		}
	}

	return nil
}

func (t *TimecodeConfig) Validate() error {
	if t.DefaultFPS == 0 {
		return fmt.Errorf("default_fps must be positive")
	}

	return nil
}

// DropFrameFor returns the configured drop-frame default, falling back to
// the convention for fps when none is set.
func (t *TimecodeConfig) DropFrameFor(fps uint16) bool {
	if t.DefaultDropFrame != nil {
		return *t.DefaultDropFrame
	}
	return timecode.DefaultDropFrame(fps)
}

func (g *GeneratorsConfig) Validate() error {
	if g.Backend != "redis" && g.Backend != "memory" {
		return fmt.Errorf("backend must be 'redis' or 'memory', got %q", g.Backend)
	}

	if g.KeyPrefix == "" {
		return fmt.Errorf("key_prefix cannot be empty")
	}

	if g.TTL < 0 {
		return fmt.Errorf("ttl cannot be negative")
	}

	// Only Redis expires keys; the memory store keeps generators until deleted.
	if g.Backend == "memory" && g.TTL > 0 {
		return fmt.Errorf("ttl is only supported by the redis backend")
	}

	if g.MaxGenerators <= 0 {
		return fmt.Errorf("max_generators must be positive")
	}

	if g.MaxIncrement == 0 {
		return fmt.Errorf("max_increment must be positive")
	}

	return nil
}
