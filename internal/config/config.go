// Package config handles penman configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/HartBrook/penman/internal/errors"
	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Store backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Default values.
const (
	DefaultVersion     = 1
	DefaultProvider    = ProviderGemini
	DefaultTimeout     = "120s"
	DefaultBackend     = BackendFile
	DefaultProfileDir  = "profiles"
	DefaultRedisPrefix = "penman:profile:"
	DefaultTeamPath    = "profiles"
	DefaultFileMode    = 0644
)

// EnvConfigFile overrides the config file location.
const EnvConfigFile = "PENMAN_CONFIG"

// providerDefaults maps a provider to its default model and credential variable.
var providerDefaults = map[string]struct {
	Model  string
	EnvVar string
}{
	ProviderGemini:    {Model: "gemini-2.0-flash", EnvVar: "GOOGLE_API_KEY"},
	ProviderAnthropic: {Model: "claude-sonnet-4-20250514", EnvVar: "ANTHROPIC_API_KEY"},
	ProviderOpenAI:    {Model: "gpt-4o-mini", EnvVar: "OPENAI_API_KEY"},
}

// StoreConfig selects and configures the profile store backend.
type StoreConfig struct {
	Backend       string `yaml:"backend,omitempty"`        // file, sqlite, or redis
	Dir           string `yaml:"dir,omitempty"`            // file backend directory
	SQLitePath    string `yaml:"sqlite_path,omitempty"`    // sqlite database file
	RedisAddr     string `yaml:"redis_addr,omitempty"`     // host:port
	RedisPassword string `yaml:"redis_password,omitempty"` // optional
	RedisPrefix   string `yaml:"redis_prefix,omitempty"`   // key prefix
}

// TeamConfig points at a GitHub repository of shared profiles.
type TeamConfig struct {
	Repo   string `yaml:"repo,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Branch string `yaml:"branch,omitempty"`
}

// Config represents the penman configuration file.
type Config struct {
	Version  int         `yaml:"version"`
	Provider string      `yaml:"provider,omitempty"`
	Model    string      `yaml:"model,omitempty"`
	BaseURL  string      `yaml:"base_url,omitempty"`
	Timeout  string      `yaml:"timeout,omitempty"`
	Store    StoreConfig `yaml:"store,omitempty"`
	Team     TeamConfig  `yaml:"team,omitempty"`

	// APIKey is read from the provider's environment variable, never from the file.
	APIKey string `yaml:"-"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads config from the default location, falling back to defaults
// when no file exists, and resolves the provider credential.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = NewPaths().ConfigFile
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	cfg.ResolveAPIKey(os.Getenv)
	return cfg, nil
}

// LoadFrom reads and validates config from a specific path.
// A missing file yields the default config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks config for valid values.
func (c *Config) Validate() error {
	if _, ok := providerDefaults[c.Provider]; !ok {
		return errors.ConfigInvalid("unknown provider " + c.Provider + ", use gemini, anthropic, or openai")
	}

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return errors.ConfigInvalid("invalid timeout format, use Go duration format (e.g., 120s)")
	}

	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.ConfigInvalid("store.redis_addr is required for the redis backend")
		}
	default:
		return errors.ConfigInvalid("unknown store backend " + c.Store.Backend + ", use file, sqlite, or redis")
	}

	if c.Team.Repo != "" {
		if _, _, err := ParseRepo(c.Team.Repo); err != nil {
			return errors.ConfigInvalid(err.Error())
		}
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = providerDefaults[c.Provider].Model
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultBackend
	}
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultProfileDir
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(c.Store.Dir, "profiles.db")
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = DefaultRedisPrefix
	}
	if c.Team.Path == "" {
		c.Team.Path = DefaultTeamPath
	}
}

// ResolveAPIKey reads the provider credential once through lookup.
func (c *Config) ResolveAPIKey(lookup func(string) string) {
	c.APIKey = lookup(c.APIKeyEnv())
}

// APIKeyEnv returns the environment variable holding the provider credential.
func (c *Config) APIKeyEnv() string {
	return providerDefaults[c.Provider].EnvVar
}

// TimeoutDuration returns the request timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// TeamOwnerRepo returns the owner and repo of the team profile source.
func (c *Config) TeamOwnerRepo() (owner, repo string, err error) {
	if c.Team.Repo == "" {
		return "", "", errors.New(errors.ErrInvalidRepo, "no team repository configured",
			"Set team.repo in config.yaml or pass --repo")
	}
	return ParseRepo(c.Team.Repo)
}
