package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Gateway GatewayConfig `koanf:"gateway"`
	Catalog CatalogConfig `koanf:"catalog"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string          `koanf:"host"`
	Port       int             `koanf:"port"`
	Mode       string          `koanf:"mode"`
	CSRFSecret string          `koanf:"csrf_secret"`
	Timeout    string          `koanf:"timeout"`
	CORS       CORSConfig      `koanf:"cors"`
	RateLimit  RateLimitConfig `koanf:"rate_limit"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig holds rate limiting settings for the proxy API.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// GatewayConfig holds remote listings gateway settings.
type GatewayConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout string `koanf:"timeout"`
}

// CatalogConfig holds catalog presentation settings.
type CatalogConfig struct {
	// PerPage is the fixed catalog page size sent to the gateway.
	PerPage int `koanf:"per_page"`
	// SearchDebounce is how long search input must be idle before a
	// fetch is issued (the terminal browser honors this; the web page
	// encodes the same interval in its htmx trigger).
	SearchDebounce string `koanf:"search_debounce"`
	// CreditRate is the yearly interest rate used for the displayed
	// monthly payment estimate.
	CreditRate float64 `koanf:"credit_rate"`
	// CreditTermMonths is the loan term for the payment estimate.
	CreditTermMonths int `koanf:"credit_term_months"`
}

// DebounceInterval returns the parsed search debounce duration.
// Validate guarantees the value parses; the zero config returns 500ms.
func (c CatalogConfig) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(c.SearchDebounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__GATEWAY__BASE_URL overrides gateway.base_url.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML config file.
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// Overlay environment variables with prefix APP__.
	// APP__SERVER__PORT -> server.port
	// APP__CATALOG__PER_PAGE -> catalog.per_page
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	// Validate server.mode.
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	// Validate server.port range.
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	// Validate server.host.
	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	// Validate gateway.base_url.
	baseURL := strings.TrimSpace(c.Gateway.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid gateway.base_url %q: %w", c.Gateway.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid gateway.base_url %q: scheme must be http or https", c.Gateway.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid gateway.base_url %q: host is required", c.Gateway.BaseURL)
	}
	c.Gateway.BaseURL = strings.TrimRight(baseURL, "/")

	// Normalize optional duration fields: whitespace-only means unset.
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)
	c.Gateway.Timeout = strings.TrimSpace(c.Gateway.Timeout)
	c.Catalog.SearchDebounce = strings.TrimSpace(c.Catalog.SearchDebounce)

	// Validate server.timeout (optional; must be a valid Go duration if set).
	if t := c.Server.Timeout; t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid server.timeout %q: %w", c.Server.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid server.timeout %q: must be greater than 0", c.Server.Timeout)
		}
	}

	// Validate server.cors.max_age (optional; must be a valid Go duration if set).
	if ma := c.Server.CORS.MaxAge; ma != "" {
		d, err := time.ParseDuration(ma)
		if err != nil {
			return fmt.Errorf("invalid server.cors.max_age %q: must be a valid duration (e.g. \"24h\", \"3600s\"): %w", c.Server.CORS.MaxAge, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid server.cors.max_age %q: must be greater than 0", c.Server.CORS.MaxAge)
		}
	}

	// Validate gateway.timeout (optional; must be a valid positive duration if set).
	if gt := c.Gateway.Timeout; gt != "" {
		d, err := time.ParseDuration(gt)
		if err != nil {
			return fmt.Errorf("invalid gateway.timeout %q: %w", c.Gateway.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid gateway.timeout %q: must be greater than 0", c.Gateway.Timeout)
		}
	}

	// Validate server.rate_limit (when enabled, rps and burst must be positive).
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid server.rate_limit.rps %v: must be positive when rate limiting is enabled", c.Server.RateLimit.RPS)
		}
		if c.Server.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", c.Server.RateLimit.Burst)
		}
	}

	// Validate catalog.per_page.
	if c.Catalog.PerPage < 1 || c.Catalog.PerPage > 100 {
		return fmt.Errorf("invalid catalog.per_page %d: must be between 1 and 100", c.Catalog.PerPage)
	}

	// Validate catalog.search_debounce (optional; must be a valid positive duration if set).
	if sd := c.Catalog.SearchDebounce; sd != "" {
		d, err := time.ParseDuration(sd)
		if err != nil {
			return fmt.Errorf("invalid catalog.search_debounce %q: %w", c.Catalog.SearchDebounce, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid catalog.search_debounce %q: must be greater than 0", c.Catalog.SearchDebounce)
		}
	}

	// Validate catalog.credit_rate (optional; yearly fraction when set).
	if r := c.Catalog.CreditRate; r != 0 && (r < 0 || r >= 1) {
		return fmt.Errorf("invalid catalog.credit_rate %v: must be a yearly fraction in (0, 1)", c.Catalog.CreditRate)
	}

	// Validate catalog.credit_term_months (optional; positive when set).
	if m := c.Catalog.CreditTermMonths; m < 0 {
		return fmt.Errorf("invalid catalog.credit_term_months %d: must be positive", c.Catalog.CreditTermMonths)
	}

	// Validate log.level.
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	// Validate log.format.
	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}
