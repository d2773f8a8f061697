// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FIELDWORK_"

// MinArchiveDelay is the smallest gap allowed between two archive requests.
const MinArchiveDelay = time.Second

// Config is read from FIELDWORK_* environment variables. Command line flags
// override individual values after loading.
type Config struct {
	// Storage
	DatabaseURL string        `env:"DATABASE_URL"`
	RedisURL    string        `env:"REDIS_URL"` // archived snapshot cache, optional
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"168h"`

	// HTTP client
	UserAgent    string        `env:"USER_AGENT" envDefault:"Fieldwork/1.0"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	MaxRetries   int           `env:"MAX_RETRIES" envDefault:"3"`
	RetryBackoff time.Duration `env:"RETRY_BACKOFF" envDefault:"500ms"`
	// ArchiveDelay is the minimum gap between two archive requests.
	ArchiveDelay time.Duration `env:"ARCHIVE_DELAY" envDefault:"1500ms"`

	// Endpoints
	GreenhouseAPIBase string `env:"GREENHOUSE_API_BASE" envDefault:"https://boards-api.greenhouse.io"`
	WaybackCDXURL     string `env:"WAYBACK_CDX_URL" envDefault:"https://web.archive.org/cdx/search/cdx"`
	WaybackRawURL     string `env:"WAYBACK_RAW_URL" envDefault:"https://web.archive.org/web"`

	// Import
	PageSize    int    `env:"PAGE_SIZE" envDefault:"500"`
	Concurrency int    `env:"CONCURRENCY" envDefault:"4"`
	Schedule    string `env:"SCHEDULE" envDefault:"0 6 * * *"` // cron spec for watch

	// Output
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`
	// RateLimit is the API request budget per client per minute, 0 disables it.
	RateLimit          int    `env:"RATE_LIMIT" envDefault:"120"`
	RateLimitWhitelist string `env:"RATE_LIMIT_WHITELIST"` // comma-separated client IPs
}

// Load reads the configuration from the environment and applies Sanitize.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Sanitize()
	return &cfg, nil
}

// Sanitize clamps numeric values into their usable ranges.
func (c *Config) Sanitize() {
	c.MaxRetries = clamp(c.MaxRetries, 0, 10)
	c.Concurrency = clamp(c.Concurrency, 1, 32)
	c.RateLimit = max(c.RateLimit, 0)
	if c.PageSize <= 0 || c.PageSize > 500 {
		c.PageSize = 500
	}
	if c.HTTPTimeout < time.Second {
		c.HTTPTimeout = time.Second
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
	if c.ArchiveDelay < MinArchiveDelay {
		c.ArchiveDelay = MinArchiveDelay
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 7 * 24 * time.Hour
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate checks that the configuration has valid values. Required values
// such as DatabaseURL are checked by the commands that need them.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: 'log_level' must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("config error: 'server_port' must be between 1 and 65535")
	}

	for name, raw := range map[string]string{
		"greenhouse_api_base": c.GreenhouseAPIBase,
		"wayback_cdx_url":     c.WaybackCDXURL,
		"wayback_raw_url":     c.WaybackRawURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: '%s' is not an absolute URL: %q", name, raw)
		}
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("config error: 'redis_url' must use the redis:// or rediss:// scheme")
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("config error: 'schedule' is not a valid cron spec: %w", err)
	}
	return nil
}

// RequireDatabase reports a missing database URL.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set %sDATABASE_URL or pass --db-url)", EnvPrefix)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
