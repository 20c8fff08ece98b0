// Package config holds the service configuration: compiled-in defaults, an
// optional YAML file on top, and environment overrides applied by the
// binary. Duration-valued settings travel as millisecond integers in the
// file and convert at the edge.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig covers the HTTP surface. WriteTimeoutMS must outlast the
// engine's worst case or stay 0; a resolution can legitimately take minutes
// when every provider times out.
type ServerConfig struct {
	Port            int `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeoutMS   int `yaml:"readTimeoutMS" validate:"gte=0"`
	WriteTimeoutMS  int `yaml:"writeTimeoutMS" validate:"gte=0"`
	IdleTimeoutMS   int `yaml:"idleTimeoutMS" validate:"gte=0"`
	ProbeTimeoutMS  int `yaml:"probeTimeoutMS" validate:"gt=0"`
	ProbeCacheTTLMS int `yaml:"probeCacheTTLMS" validate:"gt=0"`
}

// EngineConfig covers the retrieval engine: attempt ladder, waits, date
// fallback.
type EngineConfig struct {
	MaxRetries        int    `yaml:"maxRetries" validate:"gte=1"`
	TimeoutMS         int    `yaml:"timeoutMS" validate:"gt=0"`
	RetryBackoffMS    int    `yaml:"retryBackoffMS" validate:"gt=0"`
	RetryBackoffMaxMS int    `yaml:"retryBackoffMaxMS" validate:"gte=0"`
	ConnRetryWaitMS   int    `yaml:"connRetryWaitMS" validate:"gte=0"`
	SourceCooldownMS  int    `yaml:"sourceCooldownMS" validate:"gte=0"`
	DateFallbackDays  int    `yaml:"dateFallbackDays" validate:"gte=1,lte=5"`
	Timezone          string `yaml:"timezone" validate:"required"`
}

// SourceConfig tunes one provider. Absent entries keep the built-in
// endpoint and stay enabled.
type SourceConfig struct {
	Enabled *bool  `yaml:"enabled"`
	BaseURL string `yaml:"baseURL" validate:"omitempty,url"`
}

// UserAgentConfig tunes outbound request identification.
type UserAgentConfig struct {
	Dynamic bool     `yaml:"dynamic"`
	Pool    []string `yaml:"pool"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Engine    EngineConfig            `yaml:"engine"`
	Sources   map[string]SourceConfig `yaml:"sources"`
	UserAgent UserAgentConfig         `yaml:"useragent"`
	Verbose   bool                    `yaml:"verbose"`
}

// DefaultConfig returns the settings the service runs with when no file or
// environment says otherwise. The engine numbers mirror the providers'
// observed behavior: slow pages ride out a 45s timeout, three attempts,
// exponential waits from one second.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeoutMS:   10000,
			WriteTimeoutMS:  0,
			IdleTimeoutMS:   90000,
			ProbeTimeoutMS:  5000,
			ProbeCacheTTLMS: 30000,
		},
		Engine: EngineConfig{
			MaxRetries:        3,
			TimeoutMS:         45000,
			RetryBackoffMS:    1000,
			RetryBackoffMaxMS: 30000,
			ConnRetryWaitMS:   2000,
			SourceCooldownMS:  2000,
			DateFallbackDays:  3,
			Timezone:          "Asia/Kolkata",
		},
		Sources:   map[string]SourceConfig{},
		UserAgent: UserAgentConfig{},
	}
}

// Load reads the optional YAML file over the defaults and validates the
// result. An empty path means defaults only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural tags first, then the cross-field rules the
// tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Engine.RetryBackoffMaxMS > 0 && c.Engine.RetryBackoffMS > c.Engine.RetryBackoffMaxMS {
		return fmt.Errorf("retry backoff (%dms) cannot exceed retry backoff max (%dms)",
			c.Engine.RetryBackoffMS, c.Engine.RetryBackoffMaxMS)
	}
	for key, sc := range c.Sources {
		if sc.BaseURL == "" {
			continue
		}
		u, err := url.Parse(sc.BaseURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("source %s: base URL must include a host", key)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Engine.Timezone, err)
	}
	return nil
}

// Location loads the configured timezone. The date ladder and record
// timestamps always use this zone, never the host's.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Engine.Timezone)
}

// SourceEnabled reports whether a provider is on. Absent entries default to
// enabled.
func (c *Config) SourceEnabled(key string) bool {
	sc, ok := c.Sources[key]
	if !ok || sc.Enabled == nil {
		return true
	}
	return *sc.Enabled
}

// SourceBaseURL returns the configured endpoint override, or empty for the
// built-in default.
func (c *Config) SourceBaseURL(key string) string {
	return c.Sources[key].BaseURL
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// Duration views of the millisecond fields.

func (e EngineConfig) Timeout() time.Duration         { return ms(e.TimeoutMS) }
func (e EngineConfig) RetryBackoff() time.Duration    { return ms(e.RetryBackoffMS) }
func (e EngineConfig) RetryBackoffMax() time.Duration { return ms(e.RetryBackoffMaxMS) }
func (e EngineConfig) ConnRetryWait() time.Duration   { return ms(e.ConnRetryWaitMS) }
func (e EngineConfig) SourceCooldown() time.Duration  { return ms(e.SourceCooldownMS) }

func (s ServerConfig) ReadTimeout() time.Duration   { return ms(s.ReadTimeoutMS) }
func (s ServerConfig) WriteTimeout() time.Duration  { return ms(s.WriteTimeoutMS) }
func (s ServerConfig) IdleTimeout() time.Duration   { return ms(s.IdleTimeoutMS) }
func (s ServerConfig) ProbeTimeout() time.Duration  { return ms(s.ProbeTimeoutMS) }
func (s ServerConfig) ProbeCacheTTL() time.Duration { return ms(s.ProbeCacheTTLMS) }
