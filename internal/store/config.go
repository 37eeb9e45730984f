package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "https://www.screener.in"
	DefaultPathTemplate = "/company/{symbol}/consolidated/"
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type Config struct {
	Screener struct {
		BaseURL            string  `yaml:"base_url"`
		PathTemplate       string  `yaml:"path_template"`
		Backend            string  `yaml:"backend"`
		TimeoutSeconds     int     `yaml:"timeout_seconds"`
		UserAgent          string  `yaml:"user_agent"`
		RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
		RateLimitBurst     int     `yaml:"rate_limit_burst"`
	} `yaml:"screener"`
	Pipeline struct {
		Mode                  string `yaml:"mode"`
		Workers               int    `yaml:"workers"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	} `yaml:"pipeline"`
	Cache struct {
		Backend       string `yaml:"backend"`
		TTLMinutes    int    `yaml:"ttl_minutes"`
		Dir           string `yaml:"dir"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
	} `yaml:"cache"`
	Input struct {
		SymbolColumn   string `yaml:"symbol_column"`
		PriceColumn    string `yaml:"price_column"`
		QuantityColumn string `yaml:"quantity_column"`
	} `yaml:"input"`
	Report struct {
		OutputDir           string `yaml:"output_dir"`
		Format              string `yaml:"format"`
		RunLogDir           string `yaml:"run_log_dir"`
		RunLogRetentionDays int    `yaml:"run_log_retention_days"`
	} `yaml:"report"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Screener.BaseURL == "" {
		c.Screener.BaseURL = DefaultBaseURL
	}
	if c.Screener.PathTemplate == "" {
		c.Screener.PathTemplate = DefaultPathTemplate
	}
	if c.Screener.Backend == "" {
		c.Screener.Backend = "HTTP"
	}
	if c.Screener.TimeoutSeconds == 0 {
		c.Screener.TimeoutSeconds = 30
	}
	if c.Screener.UserAgent == "" {
		c.Screener.UserAgent = DefaultUserAgent
	}
	if c.Screener.RateLimitBurst == 0 {
		c.Screener.RateLimitBurst = 1
	}
	if c.Pipeline.Mode == "" {
		c.Pipeline.Mode = "CONCURRENT"
	}
	if c.Pipeline.RequestTimeoutSeconds == 0 {
		c.Pipeline.RequestTimeoutSeconds = 20
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "NONE"
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 60
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache/screener"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Input.SymbolColumn == "" {
		c.Input.SymbolColumn = "Symbol"
	}
	if c.Input.PriceColumn == "" {
		c.Input.PriceColumn = "Buying Price"
	}
	if c.Input.QuantityColumn == "" {
		c.Input.QuantityColumn = "Quantity"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "reports"
	}
	if c.Report.Format == "" {
		c.Report.Format = "CSV"
	}
	if c.Report.RunLogDir == "" {
		c.Report.RunLogDir = "logs/runs"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCREENER_BASE_URL"); v != "" {
		c.Screener.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
}

func (c *Config) Validate() error {
	if !strings.Contains(c.Screener.PathTemplate, "{symbol}") {
		return fmt.Errorf("screener.path_template '%s' must contain {symbol}", c.Screener.PathTemplate)
	}
	switch c.Screener.Backend {
	case "HTTP", "COLLY", "BROWSER":
	default:
		return fmt.Errorf("screener.backend must be 'HTTP', 'COLLY', or 'BROWSER', got '%s'", c.Screener.Backend)
	}
	if c.Screener.TimeoutSeconds < 0 || c.Pipeline.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if c.Screener.RateLimitPerSecond < 0 {
		return fmt.Errorf("screener.rate_limit_per_second cannot be negative, got %.2f", c.Screener.RateLimitPerSecond)
	}
	if c.Pipeline.Mode != "SEQUENTIAL" && c.Pipeline.Mode != "CONCURRENT" {
		return fmt.Errorf("invalid pipeline.mode '%s': must be 'SEQUENTIAL' or 'CONCURRENT'", c.Pipeline.Mode)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers cannot be negative, got %d", c.Pipeline.Workers)
	}
	switch c.Cache.Backend {
	case "NONE", "MEMORY", "FILE", "REDIS":
	default:
		return fmt.Errorf("cache.backend must be 'NONE', 'MEMORY', 'FILE', or 'REDIS', got '%s'", c.Cache.Backend)
	}
	if c.Report.RunLogRetentionDays < 0 {
		return fmt.Errorf("report.run_log_retention_days cannot be negative, got %d", c.Report.RunLogRetentionDays)
	}
	switch c.Report.Format {
	case "CSV", "JSON", "MARKDOWN":
	default:
		return fmt.Errorf("report.format must be 'CSV', 'JSON', or 'MARKDOWN', got '%s'", c.Report.Format)
	}
	return nil
}

// FetchTimeout is the transport timeout of the fetch backend.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Screener.TimeoutSeconds) * time.Second
}

// RequestTimeout bounds one fetch+extract inside the pipeline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Pipeline.RequestTimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// LoadConfig reads path; a missing file yields the defaults so the tool
// runs without any configuration.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	c.applyDefaults()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
