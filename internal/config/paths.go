package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths provides all penman-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/penman
	CacheDir   string // ~/.cache/penman
	ConfigFile string // ~/.config/penman/config.yaml
}

// NewPaths creates Paths using ~/.config and ~/.cache directories.
// We use these paths explicitly for cross-platform consistency rather than
// platform-specific defaults (like ~/Library/Application Support on macOS).
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	return NewPathsWithOverrides(
		filepath.Join(home, ".config", "penman"),
		filepath.Join(home, ".cache", "penman"),
	)
}

// NewPathsWithOverrides allows overriding directories for testing.
func NewPathsWithOverrides(configDir, cacheDir string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		CacheDir:   cacheDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}

// PullMetadataFile returns the sidecar recording the last team profile pull.
func (p *Paths) PullMetadataFile(owner, repo string) string {
	return filepath.Join(p.CacheDir, fmt.Sprintf("%s-%s.pull.json", owner, repo))
}
