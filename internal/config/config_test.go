package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: 8080,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 10,
				Burst:             20,
				MaxClients:        100,
			},
		},
		Redis: RedisConfig{
			Addresses:    []string{"localhost:6379"},
			DB:           0,
			MaxRetries:   3,
			PoolSize:     100,
			MinIdleConns: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9090,
		},
		Timecode: TimecodeConfig{
			DefaultFPS: 30,
		},
		Generators: GeneratorsConfig{
			Backend:       "redis",
			KeyPrefix:     "timecode:generators:",
			MaxGenerators: 10,
			MaxIncrement:  1000,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name: "cert files not found",
			mutate: func(c *Config) {
				c.Server.EnableHTTP3 = true
				c.Server.HTTP3Port = 8443
				c.Server.TLSCertFile = "/nonexistent/cert.pem"
				c.Server.TLSKeyFile = "/nonexistent/key.pem"
			},
			wantErr: true,
			errMsg:  "TLS certificate file not found",
		},
		{
			name:    "invalid server port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
			errMsg:  "invalid HTTP port",
		},
		{
			name:    "zero default fps",
			mutate:  func(c *Config) { c.Timecode.DefaultFPS = 0 },
			wantErr: true,
			errMsg:  "default_fps must be positive",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Generators.Backend = "etcd" },
			wantErr: true,
			errMsg:  "backend must be",
		},
		{
			name: "memory backend skips redis validation",
			mutate: func(c *Config) {
				c.Generators.Backend = "memory"
				c.Redis = RedisConfig{}
			},
		},
		{
			name: "memory backend rejects ttl",
			mutate: func(c *Config) {
				c.Generators.Backend = "memory"
				c.Generators.TTL = time.Minute
			},
			wantErr: true,
			errMsg:  "ttl is only supported by the redis backend",
		},
		{
			name:    "redis backend rejects several addresses",
			mutate:  func(c *Config) { c.Redis.Addresses = []string{"redis-a:6379", "redis-b:6379"} },
			wantErr: true,
			errMsg:  "exactly one Redis address",
		},
		{
			name:    "redis backend requires addresses",
			mutate:  func(c *Config) { c.Redis.Addresses = nil },
			wantErr: true,
			errMsg:  "at least one Redis address",
		},
		{
			name:    "rate limit without rate",
			mutate:  func(c *Config) { c.Server.RateLimit.RequestsPerSecond = 0 },
			wantErr: true,
			errMsg:  "requests_per_second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if err != nil {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test-config-*.yaml")
	require.NoError(t, err)
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	configContent := `
server:
  http_port: 9000

redis:
  addresses:
    - "localhost:6379"
  pool_size: 50

logging:
  level: "debug"
  format: "text"

metrics:
  enabled: false

timecode:
  default_fps: 25
  default_drop_frame: false
  strict_validation: true

generators:
  backend: redis
  ttl: 1h
`
	_, err = tmpfile.Write([]byte(configContent))
	require.NoError(t, err)
	_ = tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, uint16(25), cfg.Timecode.DefaultFPS)
	require.NotNil(t, cfg.Timecode.DefaultDropFrame)
	assert.False(t, *cfg.Timecode.DefaultDropFrame)
	assert.True(t, cfg.Timecode.StrictValidation)
	assert.Equal(t, "redis", cfg.Generators.Backend)
	assert.Equal(t, time.Hour, cfg.Generators.TTL)
	assert.Equal(t, "timecode:generators:", cfg.Generators.KeyPrefix)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, uint16(30), cfg.Timecode.DefaultFPS)
	assert.Nil(t, cfg.Timecode.DefaultDropFrame)
	assert.Equal(t, "redis", cfg.Generators.Backend)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addresses)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TIMECODE_TIMECODE_DEFAULT_FPS", "50")
	t.Setenv("TIMECODE_GENERATORS_BACKEND", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint16(50), cfg.Timecode.DefaultFPS)
	assert.Equal(t, "memory", cfg.Generators.Backend)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestTimecodeConfig_DropFrameFor(t *testing.T) {
	cfg := TimecodeConfig{DefaultFPS: 30}
	assert.True(t, cfg.DropFrameFor(30))
	assert.False(t, cfg.DropFrameFor(25))

	off := false
	cfg.DefaultDropFrame = &off
	assert.False(t, cfg.DropFrameFor(30))
}

func TestServerConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr bool
	}{
		{
			name: "empty cert file",
			config: ServerConfig{
				HTTPPort:    8080,
				EnableHTTP3: true,
				HTTP3Port:   443,
				TLSKeyFile:  "key.pem",
			},
			wantErr: true,
		},
		{
			name: "empty key file",
			config: ServerConfig{
				HTTPPort:    8080,
				EnableHTTP3: true,
				HTTP3Port:   443,
				TLSCertFile: "cert.pem",
			},
			wantErr: true,
		},
		{
			name: "invalid http3 port",
			config: ServerConfig{
				HTTPPort:    8080,
				EnableHTTP3: true,
				HTTP3Port:   70000,
				TLSCertFile: "cert.pem",
				TLSKeyFile:  "key.pem",
			},
			wantErr: true,
		},
		{
			name: "http3 disabled ignores tls",
			config: ServerConfig{
				HTTPPort: 8080,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedisConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  RedisConfig
		wantErr bool
	}{
		{
			name: "negative DB",
			config: RedisConfig{
				Addresses: []string{"localhost:6379"},
				DB:        -1,
				PoolSize:  100,
			},
			wantErr: true,
		},
		{
			name: "zero pool size",
			config: RedisConfig{
				Addresses: []string{"localhost:6379"},
				PoolSize:  0,
			},
			wantErr: true,
		},
		{
			name: "min idle conns greater than pool size",
			config: RedisConfig{
				Addresses:    []string{"localhost:6379"},
				PoolSize:     10,
				MinIdleConns: 20,
			},
			wantErr: true,
		},
		{
			name: "multiple addresses",
			config: RedisConfig{
				Addresses: []string{"redis-a:6379", "redis-b:6379"},
				PoolSize:  10,
			},
			wantErr: true,
		},
		{
			name: "valid",
			config: RedisConfig{
				Addresses:    []string{"localhost:6379"},
				PoolSize:     10,
				MinIdleConns: 2,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggingConfigValidation(t *testing.T) {
	assert.Error(t, (&LoggingConfig{Level: "loud", Format: "json", Output: "stdout"}).Validate())
	assert.Error(t, (&LoggingConfig{Level: "info", Format: "xml", Output: "stdout"}).Validate())
	assert.Error(t, (&LoggingConfig{Level: "info", Format: "json", Output: "/tmp/x.log"}).Validate())
	assert.NoError(t, (&LoggingConfig{Level: "info", Format: "json", Output: "/tmp/x.log", MaxSize: 10}).Validate())
}
