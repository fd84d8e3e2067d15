package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the theme downloader
type Config struct {
	// Shopify API settings
	Shopify ShopifyConfig `yaml:"shopify" json:"shopify"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ShopifyConfig holds Shopify-specific configuration
type ShopifyConfig struct {
	DomainSuffix   string        `yaml:"domain_suffix" json:"domain_suffix"`
	APIVersion     string        `yaml:"api_version" json:"api_version"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// RateLimitConfig holds the call spacing and call budget policy
type RateLimitConfig struct {
	Cycle       time.Duration `yaml:"cycle" json:"cycle"`
	Unit        time.Duration `yaml:"unit" json:"unit"`
	BudgetFloor int           `yaml:"budget_floor" json:"budget_floor"`
	BudgetPause time.Duration `yaml:"budget_pause" json:"budget_pause"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Shopify: ShopifyConfig{
			DomainSuffix:   "myshopify.com",
			APIVersion:     "",
			UserAgent:      "themedl/1.0",
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Cycle:       500 * time.Millisecond,
			Unit:        time.Second,
			BudgetFloor: 5,
			BudgetPause: 10 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: ".",
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if suffix := os.Getenv("THEMEDL_DOMAIN_SUFFIX"); suffix != "" {
		c.Shopify.DomainSuffix = suffix
	}
	if version := os.Getenv("THEMEDL_API_VERSION"); version != "" {
		c.Shopify.APIVersion = version
	}
	if userAgent := os.Getenv("THEMEDL_USER_AGENT"); userAgent != "" {
		c.Shopify.UserAgent = userAgent
	}
	if timeout := os.Getenv("THEMEDL_REQUEST_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid THEMEDL_REQUEST_TIMEOUT: %w", err)
		}
		c.Shopify.RequestTimeout = d
	}

	if floor := os.Getenv("THEMEDL_BUDGET_FLOOR"); floor != "" {
		var val int
		if _, err := fmt.Sscanf(floor, "%d", &val); err != nil {
			return fmt.Errorf("invalid THEMEDL_BUDGET_FLOOR: %w", err)
		}
		c.RateLimit.BudgetFloor = val
	}

	if outputDir := os.Getenv("THEMEDL_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if logLevel := os.Getenv("THEMEDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("THEMEDL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".themedl.yaml",
		".themedl.yml",
		filepath.Join(home, ".config", "themedl", "config.yaml"),
		filepath.Join(home, ".config", "themedl", "config.yml"),
		filepath.Join(home, ".themedl.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Shopify.DomainSuffix == "" {
		errs = append(errs, errors.New("shop domain suffix is required"))
	}
	if c.Shopify.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.Cycle < 0 {
		errs = append(errs, errors.New("rate limit cycle cannot be negative"))
	}
	if c.RateLimit.Unit <= 0 {
		errs = append(errs, errors.New("rate limit unit must be positive"))
	}
	if c.RateLimit.BudgetFloor < 0 {
		errs = append(errs, errors.New("budget floor cannot be negative"))
	}
	if c.RateLimit.BudgetPause < 0 {
		errs = append(errs, errors.New("budget pause cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if version, ok := flags["api-version"].(string); ok && version != "" {
		c.Shopify.APIVersion = version
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".themedl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
