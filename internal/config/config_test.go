package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HartBrook/penman/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name      string
		repo      string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "short format",
			repo:      "acme/voices",
			wantOwner: "acme",
			wantRepo:  "voices",
		},
		{
			name:      "https URL with .git suffix",
			repo:      "https://github.com/acme/voices.git",
			wantOwner: "acme",
			wantRepo:  "voices",
		},
		{
			name:      "URL with trailing slash",
			repo:      "https://github.com/acme/voices/",
			wantOwner: "acme",
			wantRepo:  "voices",
		},
		{
			name:      "URL with /tree/main",
			repo:      "github.com/acme/voices/tree/main",
			wantOwner: "acme",
			wantRepo:  "voices",
		},
		{
			name:    "empty",
			repo:    "",
			wantErr: true,
		},
		{
			name:    "missing repo",
			repo:    "acme",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepo(tt.repo)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidRepo))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, DefaultProfileDir, cfg.Store.Dir)
	assert.Equal(t, 120*time.Second, cfg.TimeoutDuration())
}

func TestLoadFrom_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
provider: anthropic
timeout: 30s
store:
  backend: sqlite
  sqlite_path: /tmp/penman.db
team:
  repo: acme/voices
  branch: main
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/penman.db", cfg.Store.SQLitePath)
	assert.Equal(t, DefaultTeamPath, cfg.Team.Path)

	owner, repo, err := cfg.TeamOwnerRepo()
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "voices", repo)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "bard" },
			wantErr: "unknown provider bard",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Timeout = "soon" },
			wantErr: "invalid timeout",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "postgres" },
			wantErr: "unknown store backend postgres",
		},
		{
			name:    "redis without addr",
			mutate:  func(c *Config) { c.Store.Backend = BackendRedis },
			wantErr: "redis_addr is required",
		},
		{
			name:    "bad team repo",
			mutate:  func(c *Config) { c.Team.Repo = "not a repo" },
			wantErr: "invalid repository format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	env := map[string]string{
		"GOOGLE_API_KEY":    "google-key",
		"ANTHROPIC_API_KEY": "anthropic-key",
		"OPENAI_API_KEY":    "openai-key",
	}
	lookup := func(k string) string { return env[k] }

	for provider, want := range map[string]string{
		ProviderGemini:    "google-key",
		ProviderAnthropic: "anthropic-key",
		ProviderOpenAI:    "openai-key",
	} {
		cfg := &Config{Provider: provider}
		cfg.applyDefaults()
		cfg.ResolveAPIKey(lookup)
		assert.Equal(t, want, cfg.APIKey, provider)
	}
}

func TestTeamOwnerRepo_NotConfigured(t *testing.T) {
	_, _, err := Default().TeamOwnerRepo()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRepo))
}
