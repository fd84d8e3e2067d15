package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.RateLimit.Cycle != 500*time.Millisecond {
		t.Errorf("Expected default cycle to be 500ms, got %s", config.RateLimit.Cycle)
	}

	if config.RateLimit.BudgetFloor != 5 {
		t.Errorf("Expected default budget floor to be 5, got %d", config.RateLimit.BudgetFloor)
	}

	if config.RateLimit.BudgetPause != 10*time.Second {
		t.Errorf("Expected default budget pause to be 10s, got %s", config.RateLimit.BudgetPause)
	}

	if config.Shopify.DomainSuffix != "myshopify.com" {
		t.Errorf("Expected default domain suffix to be myshopify.com, got %s", config.Shopify.DomainSuffix)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("THEMEDL_API_VERSION", "2024-01")
	t.Setenv("THEMEDL_REQUEST_TIMEOUT", "45s")
	t.Setenv("THEMEDL_BUDGET_FLOOR", "8")
	t.Setenv("THEMEDL_OUTPUT_DIR", "/tmp/themes")
	t.Setenv("THEMEDL_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "2024-01", config.Shopify.APIVersion)
	assert.Equal(t, 45*time.Second, config.Shopify.RequestTimeout)
	assert.Equal(t, 8, config.RateLimit.BudgetFloor)
	assert.Equal(t, "/tmp/themes", config.Output.BaseDirectory)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("THEMEDL_REQUEST_TIMEOUT", "soon")

	config := DefaultConfig()
	assert.Error(t, config.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "zero unit",
			mutate:    func(c *Config) { c.RateLimit.Unit = 0 },
			wantError: true,
		},
		{
			name:      "negative budget floor",
			mutate:    func(c *Config) { c.RateLimit.BudgetFloor = -1 },
			wantError: true,
		},
		{
			name:      "missing output directory",
			mutate:    func(c *Config) { c.Output.BaseDirectory = "" },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeCommandLineFlags(map[string]interface{}{
		"output":      "/flag/output",
		"api-version": "2023-10",
		"log-level":   "debug",
	})

	assert.Equal(t, "/flag/output", config.Output.BaseDirectory)
	assert.Equal(t, "2023-10", config.Shopify.APIVersion)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	config := DefaultConfig()
	config.Shopify.APIVersion = "2024-04"
	config.RateLimit.BudgetPause = 20 * time.Second

	require.NoError(t, config.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, "2024-04", loaded.Shopify.APIVersion)
	assert.Equal(t, 20*time.Second, loaded.RateLimit.BudgetPause)
	assert.Equal(t, 500*time.Millisecond, loaded.RateLimit.Cycle)
}

func TestLoadFromFileYAMLDurations(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rate_limit:
  cycle: 1s
  budget_floor: 10
output:
  base_directory: /srv/themes
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(configPath))

	assert.Equal(t, time.Second, config.RateLimit.Cycle)
	assert.Equal(t, 10, config.RateLimit.BudgetFloor)
	assert.Equal(t, "/srv/themes", config.Output.BaseDirectory)
	// untouched keys keep their defaults
	assert.Equal(t, time.Second, config.RateLimit.Unit)
}

func TestLoadPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  base_directory: /from/file\nlogging:\n  level: info\n"), 0644))
	t.Setenv("THEMEDL_OUTPUT_DIR", "/from/env")

	config, err := Load(configPath, map[string]interface{}{"log-level": "warn"})
	require.NoError(t, err)

	assert.Equal(t, "/from/env", config.Output.BaseDirectory)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("rate_limit: [not, a, map"), 0644))

	_, err := Load(configPath, nil)
	assert.Error(t, err)
}
