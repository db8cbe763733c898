// internal/config/config.go
//
// This package handles configuration and the .activities directory structure.
// A project that serves an activities menu keeps an activities.yaml next to
// its manifest; logs go under .activities/.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// StateDir is the per-project directory for runtime files
	StateDir = ".activities"

	// FileName is the config file looked up in the project directory
	FileName = "activities.yaml"

	defaultManifest      = "app_activities.yaml"
	defaultActivitiesDir = "activities"
	defaultLabel         = "Activities:"
	defaultMenuKey       = "activitiesMenu"
)

const defaultConfigYAML = `# activities menu configuration
version: 1

# Manifest listing the activities. A local path (relative to this file's
# directory) or an http(s) URL.
manifest: app_activities.yaml

# Directory holding the activity scripts referenced by each manifest url.
activities_dir: activities

menu:
  label: "Activities:"
  key: activitiesMenu
  disabled: false

branding:
  title: ""
  caption: ""
`

// MenuConfig controls the selection widget.
type MenuConfig struct {
	Label    string `yaml:"label"`
	Key      string `yaml:"key"`
	Disabled bool   `yaml:"disabled"`
}

// BrandingConfig is the header shown above the menu.
type BrandingConfig struct {
	Title   string `yaml:"title,omitempty"`
	Caption string `yaml:"caption,omitempty"`
}

// FileConfig models activities.yaml.
type FileConfig struct {
	Version       int            `yaml:"version"`
	Manifest      string         `yaml:"manifest"`
	ActivitiesDir string         `yaml:"activities_dir"`
	Menu          MenuConfig     `yaml:"menu"`
	Branding      BrandingConfig `yaml:"branding"`
	LogFile       string         `yaml:"log_file,omitempty"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory relative paths are resolved against
	ProjectDir string

	// Path is the config file that was read (it may not exist)
	Path string

	File FileConfig
}

// InitDir creates the .activities directory and a default activities.yaml
// when none exists.
//
// Structure created:
// .activities/
// └── logs/         <- activities.log
func InitDir(projectDir string) error {
	if err := os.MkdirAll(filepath.Join(projectDir, StateDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureConfigFile(filepath.Join(projectDir, FileName))
}

// Load reads the config at path, or ProjectDir/activities.yaml when path is
// empty. A missing file yields the defaults.
func Load(projectDir, path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(projectDir, FileName)
	}
	cfg := &Config{
		ProjectDir: projectDir,
		Path:       path,
		File:       defaultFileConfig(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Manifest returns the manifest location: an absolute path or a URL.
func (c *Config) Manifest() string {
	return c.File.Manifest
}

// ActivitiesDir returns the absolute activities directory.
func (c *Config) ActivitiesDir() string {
	return c.File.ActivitiesDir
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	if c.File.LogFile != "" {
		return c.File.LogFile
	}
	return filepath.Join(c.ProjectDir, StateDir, "logs", "activities.log")
}

// Override replaces the manifest and activities directory when the values are
// non-empty, e.g. from command-line flags.
func (c *Config) Override(manifest, activitiesDir string) error {
	if m := strings.TrimSpace(manifest); m != "" {
		c.File.Manifest = m
	}
	if d := strings.TrimSpace(activitiesDir); d != "" {
		c.File.ActivitiesDir = d
	}
	c.File.normalize(c.ProjectDir)
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.File.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", c.Path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.Path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(filepath.Dir(c.Path))
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0644)
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version:       1,
		Manifest:      defaultManifest,
		ActivitiesDir: defaultActivitiesDir,
		Menu: MenuConfig{
			Label: defaultLabel,
			Key:   defaultMenuKey,
		},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.Menu.Label) == "" {
		fc.Menu.Label = defaultLabel
	}
	if strings.TrimSpace(fc.Menu.Key) == "" {
		fc.Menu.Key = defaultMenuKey
	}
}

func (fc *FileConfig) normalize(base string) {
	fc.Manifest = resolveLocation(base, fc.Manifest)
	fc.ActivitiesDir = resolvePath(base, fc.ActivitiesDir)
	fc.LogFile = resolvePath(base, fc.LogFile)
	fc.Menu.Label = strings.TrimSpace(fc.Menu.Label)
	fc.Menu.Key = strings.TrimSpace(fc.Menu.Key)
	fc.Branding.Title = strings.TrimSpace(fc.Branding.Title)
	fc.Branding.Caption = strings.TrimSpace(fc.Branding.Caption)
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if fc.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if fc.ActivitiesDir == "" {
		return fmt.Errorf("activities_dir is required")
	}
	return nil
}

func isURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func resolveLocation(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if isURL(trimmed) {
		return trimmed
	}
	return resolvePath(base, trimmed)
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
