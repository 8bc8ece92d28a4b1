package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DatabasePath string         `mapstructure:"database_path"`
	Workflow     WorkflowConfig `mapstructure:"workflow"`
	Store        StoreConfig    `mapstructure:"store"`
	Oracle       OracleConfig   `mapstructure:"oracle"`
	Log          LogConfig      `mapstructure:"log"`
}

// WorkflowConfig tunes the candidacy lifecycle
type WorkflowConfig struct {
	ShortlistThreshold int `mapstructure:"shortlist_threshold"`
	WillingnessDays    int `mapstructure:"willingness_days"`
}

// StoreConfig bounds store calls and the caller-side retry of infrastructure errors
type StoreConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
}

// OracleConfig selects the external scoring service
type OracleConfig struct {
	Provider      string        `mapstructure:"provider"` // none, openai, anthropic, ollama, lmstudio, gemini
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	OpenAIKey     string        `mapstructure:"openai_key"`
	AnthropicKey  string        `mapstructure:"anthropic_key"`
	GeminiKey     string        `mapstructure:"gemini_key"`
	GeminiKeyFile string        `mapstructure:"gemini_key_file"`
	OllamaURL     string        `mapstructure:"ollama_url"`
	LMStudioURL   string        `mapstructure:"lmstudio_url"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

const envPrefix = "HIREFLOW"

// DefaultDir returns ~/.hireflow
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".hireflow"), nil
}

// DefaultPath returns the path to the default config file
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dir := filepath.Dir(configFile)
	v.SetDefault("database_path", filepath.Join(dir, "hireflow.db"))
	v.SetDefault("workflow.shortlist_threshold", 5)
	v.SetDefault("workflow.willingness_days", 7)
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("store.retry_attempts", 3)
	v.SetDefault("store.retry_backoff", 200*time.Millisecond)
	v.SetDefault("oracle.provider", "none")
	v.SetDefault("oracle.model", "")
	v.SetDefault("oracle.timeout", 10*time.Second)
	v.SetDefault("oracle.openai_key", "")
	v.SetDefault("oracle.anthropic_key", "")
	v.SetDefault("oracle.gemini_key", "")
	v.SetDefault("oracle.gemini_key_file", "")
	v.SetDefault("oracle.ollama_url", "http://localhost:11434")
	v.SetDefault("oracle.lmstudio_url", "http://localhost:1234")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	return v
}

// Load reads the config file, creating it with defaults when it does not exist.
// An empty path means the default location.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configFile = path
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return nil, err
		}
	}

	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the workflow relies on
func (c *Config) Validate() error {
	if c.Workflow.ShortlistThreshold < 1 || c.Workflow.ShortlistThreshold > 10 {
		return fmt.Errorf("workflow.shortlist_threshold must be between 1 and 10, got %d", c.Workflow.ShortlistThreshold)
	}
	if c.Workflow.WillingnessDays < 1 {
		return fmt.Errorf("workflow.willingness_days must be positive, got %d", c.Workflow.WillingnessDays)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	if c.Store.RetryAttempts < 1 {
		return fmt.Errorf("store.retry_attempts must be at least 1")
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# hireflow configuration
workflow:
  shortlist_threshold: 5
  willingness_days: 7

store:
  timeout: 5s
  retry_attempts: 3
  retry_backoff: 200ms

# Scoring oracle: none, openai, anthropic, ollama, lmstudio, gemini
oracle:
  provider: none
  model: ""
  timeout: 10s
  ollama_url: http://localhost:11434
  lmstudio_url: http://localhost:1234
  # API keys (keep this file secure!)
  openai_key: ""
  anthropic_key: ""
  gemini_key: ""
  gemini_key_file: ""

log:
  json: false
  debug: false
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value in the given file
func Set(configFile, key, value string) error {
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)
	return v.WriteConfig()
}

// Keys lists the settable configuration keys
func Keys() []string {
	return []string{
		"database_path",
		"workflow.shortlist_threshold",
		"workflow.willingness_days",
		"store.timeout",
		"store.retry_attempts",
		"store.retry_backoff",
		"oracle.provider",
		"oracle.model",
		"oracle.timeout",
		"oracle.openai_key",
		"oracle.anthropic_key",
		"oracle.gemini_key",
		"oracle.gemini_key_file",
		"oracle.ollama_url",
		"oracle.lmstudio_url",
		"log.json",
		"log.debug",
	}
}
