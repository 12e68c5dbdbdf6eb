package models

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Storage type constants.
const (
	StorageTypeMemory   = "memory"
	StorageTypeJSON     = "json"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// Rate limit strategy constants.
const (
	RateLimitStrategyWindow = "window" // fixed window, reset by a background timer
	RateLimitStrategyBucket = "bucket" // token bucket, continuous refill
)

// Config is the root configuration of the relay service.
type Config struct {
	Server        ServerConfig        `yaml:"server" json:"server"`
	CRPT          CRPTConfig          `yaml:"crpt" json:"crpt"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit" json:"rate_limit"`
	Storage       StorageConfig       `yaml:"storage" json:"storage"`
	Security      SecurityConfig      `yaml:"security" json:"security"`
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// ServerConfig holds the inbound HTTP listener settings.
type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	Host         string        `yaml:"host" json:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
}

// CRPTConfig describes the guarded remote endpoint.
type CRPTConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Token   string        `yaml:"token" json:"token"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig bounds outbound requests: at most Limit admissions per
// Window. The strategy picks how spent budget is refreshed.
type RateLimitConfig struct {
	Strategy string        `yaml:"strategy" json:"strategy"`
	Limit    int           `yaml:"limit" json:"limit"`
	Window   time.Duration `yaml:"window" json:"window"`
}

type StorageConfig struct {
	Type     string         `yaml:"type" json:"type"`
	Path     string         `yaml:"path" json:"path"`
	Database DatabaseConfig `yaml:"database" json:"database"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"dsn" json:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns" json:"max_idle_conns"`
}

// SecurityConfig guards the inbound API with a static bearer token.
type SecurityConfig struct {
	EnableAuth bool   `yaml:"enable_auth" json:"enable_auth"`
	APIToken   string `yaml:"api_token" json:"api_token"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"` // stdout or otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
}

// NewDefaultConfig returns a configuration that runs out of the box: memory
// journal, window strategy with the CRPT sandbox-friendly 10 requests per
// second, metrics on, tracing off.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		CRPT: CRPTConfig{
			BaseURL: "https://ismp.crpt.ru",
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Strategy: RateLimitStrategyWindow,
			Limit:    10,
			Window:   time.Second,
		},
		Storage: StorageConfig{
			Type: StorageTypeMemory,
			Database: DatabaseConfig{
				MaxOpenConns: 25,
				MaxIdleConns: 5,
			},
		},
		Security: SecurityConfig{
			EnableAuth: false,
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
		Observability: ObservabilityConfig{
			ServiceName: "crptrelay",
			Tracing: TracingConfig{
				Enabled:    false,
				Exporter:   "stdout",
				SampleRate: 1.0,
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	if err := c.CRPT.Validate(); err != nil {
		return fmt.Errorf("invalid crpt config: %w", err)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("invalid rate_limit config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}
	if err := c.Security.Validate(); err != nil {
		return fmt.Errorf("invalid security config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}
	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if sc.Host == "" {
		return errors.New("host cannot be empty")
	}
	if sc.ReadTimeout < 0 || sc.WriteTimeout < 0 || sc.IdleTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	return nil
}

func (cc *CRPTConfig) Validate() error {
	if cc.BaseURL == "" {
		return errors.New("base_url cannot be empty")
	}
	u, err := url.Parse(cc.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL: %s", cc.BaseURL)
	}
	if cc.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

func (rc *RateLimitConfig) Validate() error {
	switch rc.Strategy {
	case RateLimitStrategyWindow, RateLimitStrategyBucket:
	default:
		return fmt.Errorf("invalid rate limit strategy: %s", rc.Strategy)
	}
	if rc.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	if rc.Window <= 0 {
		return errors.New("window must be positive")
	}
	return nil
}

func (stc *StorageConfig) Validate() error {
	switch stc.Type {
	case StorageTypeMemory:
		return nil
	case StorageTypeJSON:
		if stc.Path == "" {
			return errors.New("path is required for JSON storage")
		}
	case StorageTypeSQLite, StorageTypePostgres:
		if stc.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for %s storage", stc.Type)
		}
	default:
		return fmt.Errorf("invalid storage type: %s", stc.Type)
	}
	return nil
}

func (sec *SecurityConfig) Validate() error {
	if sec.EnableAuth && sec.APIToken == "" {
		return errors.New("api_token is required when auth is enabled")
	}
	return nil
}

func (lc *LoggingConfig) Validate() error {
	switch lc.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}
	switch lc.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}
	switch lc.Output {
	case "stdout", "stderr":
	case "file":
		if lc.FilePath == "" {
			return errors.New("file path is required when output is file")
		}
	default:
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}
	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}
	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}
	if mc.Port <= 0 || mc.Port > 65535 {
		return errors.New("metrics port must be between 1 and 65535")
	}
	return nil
}

func (oc *ObservabilityConfig) Validate() error {
	if oc.ServiceName == "" {
		return errors.New("service name cannot be empty")
	}
	if oc.Tracing.Enabled {
		switch oc.Tracing.Exporter {
		case "stdout":
		case "otlp":
			if oc.Tracing.OTLPEndpoint == "" {
				return errors.New("otlp_endpoint is required for the otlp exporter")
			}
		default:
			return fmt.Errorf("invalid trace exporter: %s", oc.Tracing.Exporter)
		}
		if oc.Tracing.SampleRate < 0 || oc.Tracing.SampleRate > 1 {
			return errors.New("sample_rate must be within [0, 1]")
		}
	}
	return nil
}
