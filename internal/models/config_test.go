package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://ismp.crpt.ru", cfg.CRPT.BaseURL)
	assert.Equal(t, RateLimitStrategyWindow, cfg.RateLimit.Strategy)
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.Equal(t, time.Second, cfg.RateLimit.Window)
	assert.Equal(t, StorageTypeMemory, cfg.Storage.Type)
	assert.False(t, cfg.Security.EnableAuth)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Observability.Tracing.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid server port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server config",
		},
		{
			name:    "empty crpt base url",
			mutate:  func(c *Config) { c.CRPT.BaseURL = "" },
			wantErr: "invalid crpt config",
		},
		{
			name:    "relative crpt base url",
			mutate:  func(c *Config) { c.CRPT.BaseURL = "/api/v3" },
			wantErr: "invalid crpt config",
		},
		{
			name:    "unknown rate limit strategy",
			mutate:  func(c *Config) { c.RateLimit.Strategy = "leaky" },
			wantErr: "invalid rate_limit config",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RateLimit.Limit = 0 },
			wantErr: "invalid rate_limit config",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.RateLimit.Limit = -5 },
			wantErr: "invalid rate_limit config",
		},
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.RateLimit.Window = 0 },
			wantErr: "invalid rate_limit config",
		},
		{
			name: "json storage without path",
			mutate: func(c *Config) {
				c.Storage.Type = StorageTypeJSON
				c.Storage.Path = ""
			},
			wantErr: "invalid storage config",
		},
		{
			name: "postgres storage without dsn",
			mutate: func(c *Config) {
				c.Storage.Type = StorageTypePostgres
				c.Storage.Database.DSN = ""
			},
			wantErr: "invalid storage config",
		},
		{
			name:    "auth enabled without token",
			mutate:  func(c *Config) { c.Security.EnableAuth = true },
			wantErr: "invalid security config",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging config",
		},
		{
			name: "metrics enabled without path",
			mutate: func(c *Config) {
				c.Metrics.Path = ""
			},
			wantErr: "invalid metrics config",
		},
		{
			name: "tracing otlp without endpoint",
			mutate: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.Exporter = "otlp"
			},
			wantErr: "invalid observability config",
		},
		{
			name: "sample rate out of range",
			mutate: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.SampleRate = 1.5
			},
			wantErr: "invalid observability config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRateLimitConfigValidate(t *testing.T) {
	rc := RateLimitConfig{Strategy: RateLimitStrategyBucket, Limit: 100, Window: time.Minute}
	assert.NoError(t, rc.Validate())

	rc.Window = -time.Second
	assert.Error(t, rc.Validate())
}
