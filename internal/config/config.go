// Package config loads per-environment YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/leadsearch/internal/logger"
)

// Config holds the leadsearch API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	Export  ExportConfig  `yaml:"export"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds OpenSearch connection and index selection settings.
type SearchConfig struct {
	Addresses          []string `yaml:"addresses"`
	Username           string   `yaml:"username"`
	Password           string   `yaml:"password"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
	Index              string   `yaml:"index"`            // primary, comma-separated
	FallbackIndices    string   `yaml:"fallback_indices"` // comma-separated
	RequestTimeoutSec  int      `yaml:"request_timeout_sec"`
	ReadinessTimeout   int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the optional Valkey mapping cache settings.
// The cache is disabled when Addrs is empty.
type CacheConfig struct {
	Addrs         []string `yaml:"addrs"`
	Password      string   `yaml:"password"`
	MappingTTLSec int      `yaml:"mapping_ttl_sec"`
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Columns      []string `yaml:"columns"`
	BatchSize    int      `yaml:"batch_size"`
	MaxRows      int      `yaml:"max_rows"` // 0 = unlimited
	KeepAliveSec int      `yaml:"scroll_keep_alive_sec"`
}

// RequestTimeout returns the per-call engine timeout.
func (c SearchConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML after ${VAR} substitution, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.RequestTimeoutSec <= 0 {
		c.Search.RequestTimeoutSec = 15
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 30
	}
	if c.Cache.MappingTTLSec <= 0 {
		c.Cache.MappingTTLSec = 300
	}
	if c.Export.BatchSize <= 0 {
		c.Export.BatchSize = 500
	}
	if c.Export.KeepAliveSec <= 0 {
		c.Export.KeepAliveSec = 60
	}
	// Unset ${API_KEY} placeholders decode as empty entries.
	keys := c.Auth.APIKeys[:0]
	for _, k := range c.Auth.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Auth.APIKeys = keys
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Search.Addresses) == 0 {
		return fmt.Errorf("search.addresses is required")
	}
	for i, addr := range c.Search.Addresses {
		if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
			return fmt.Errorf("search.addresses[%d] must be an http(s) URL, got %q", i, addr)
		}
	}
	if c.Export.MaxRows < 0 {
		return fmt.Errorf("export.max_rows must be >= 0, got %d", c.Export.MaxRows)
	}
	if c.Logging.Level != "" {
		if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
