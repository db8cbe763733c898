package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.File.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.File.Version)
	}
	if want := filepath.Join(projectDir, defaultManifest); c.Manifest() != want {
		t.Fatalf("manifest = %s, want %s", c.Manifest(), want)
	}
	if want := filepath.Join(projectDir, defaultActivitiesDir); c.ActivitiesDir() != want {
		t.Fatalf("activities dir = %s, want %s", c.ActivitiesDir(), want)
	}
	if c.File.Menu.Key != defaultMenuKey || c.File.Menu.Label != defaultLabel {
		t.Fatalf("unexpected menu defaults: %+v", c.File.Menu)
	}
	if want := filepath.Join(projectDir, StateDir, "logs", "activities.log"); c.LogPath() != want {
		t.Fatalf("log path = %s, want %s", c.LogPath(), want)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
manifest: https://example.com/app_activities.yaml
activities_dir: example_app/activities
menu:
  label: "**Activities:**"
  key: sidebarMenu
  disabled: true
branding:
  title: "  SITES Spectral "
  caption: Swedish Infrastructure for Ecosystem Science
log_file: logs/menu.log
`)
	path := filepath.Join(projectDir, FileName)
	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Manifest() != "https://example.com/app_activities.yaml" {
		t.Fatalf("URL manifests must be kept verbatim, got %s", c.Manifest())
	}
	if !strings.HasPrefix(c.ActivitiesDir(), projectDir) {
		t.Fatalf("expected activities dir to be resolved, got %s", c.ActivitiesDir())
	}
	if !c.File.Menu.Disabled || c.File.Menu.Key != "sidebarMenu" {
		t.Fatalf("unexpected menu config: %+v", c.File.Menu)
	}
	if c.File.Branding.Title != "SITES Spectral" {
		t.Fatalf("branding title not trimmed: %q", c.File.Branding.Title)
	}
	if c.LogPath() != filepath.Join(projectDir, "logs", "menu.log") {
		t.Fatalf("unexpected log path %s", c.LogPath())
	}
}

func TestLoadValidation(t *testing.T) {
	projectDir := t.TempDir()
	path := filepath.Join(projectDir, "custom.yaml")
	if err := os.WriteFile(path, []byte("version: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(projectDir, path); err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version validation error, got %v", err)
	}
	if err := os.WriteFile(path, []byte("manifest: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(projectDir, path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestOverride(t *testing.T) {
	projectDir := t.TempDir()
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Override("other.yaml", ""); err != nil {
		t.Fatalf("override: %v", err)
	}
	if c.Manifest() != filepath.Join(projectDir, "other.yaml") {
		t.Fatalf("manifest = %s", c.Manifest())
	}
	if c.ActivitiesDir() != filepath.Join(projectDir, defaultActivitiesDir) {
		t.Fatalf("activities dir should be untouched, got %s", c.ActivitiesDir())
	}
}

func TestInitDirKeepsExistingConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, StateDir, "logs")); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	path := filepath.Join(projectDir, FileName)
	if err := os.WriteFile(path, []byte("manifest: mine.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("second init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "manifest: mine.yaml\n" {
		t.Fatalf("existing config overwritten: %q", data)
	}
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Manifest() != filepath.Join(projectDir, "mine.yaml") {
		t.Fatalf("manifest = %s", c.Manifest())
	}
}
