package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		projectDir, configPath, manifestFlag, activitiesDir, verbose = "", "", "", "", false
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListPrintsManifestOrder(t *testing.T) {
	out, _, err := execute(t, "list", "--project", "testdata/example_app")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	first := strings.Index(out, "Overview")
	second := strings.Index(out, "Station sensors")
	if first < 0 || second < first {
		t.Fatalf("unexpected listing:\n%s", out)
	}
	if !strings.Contains(out, "stations/sensors.go") {
		t.Fatalf("listing must include script paths:\n%s", out)
	}
}

func TestValidateExampleApp(t *testing.T) {
	out, errOut, err := execute(t, "validate", "--project", "testdata/example_app")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "2 activities OK") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidateReportsMissingManifest(t *testing.T) {
	_, _, err := execute(t, "validate", "--project", "testdata/example_app", "--manifest", "missing.yaml")
	if err == nil || !strings.Contains(err.Error(), "no such file") {
		t.Fatalf("expected missing manifest error, got %v", err)
	}
}

func TestInitCreatesProjectLayout(t *testing.T) {
	project := t.TempDir()
	out, _, err := execute(t, "init", "--project", project)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, rel := range []string{"activities.yaml", ".activities/logs", "activities"} {
		if _, err := os.Stat(filepath.Join(project, rel)); err != nil {
			t.Fatalf("expected %s to exist: %v", rel, err)
		}
	}
	if !strings.Contains(out, filepath.Join(project, "activities.yaml")) {
		t.Fatalf("init should report the config path:\n%s", out)
	}

	custom := []byte("manifest: menu.yaml\nactivities_dir: scripts\n")
	if err := os.WriteFile(filepath.Join(project, "activities.yaml"), custom, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "init", "--project", project); err != nil {
		t.Fatalf("second init: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(project, "activities.yaml"))
	if err != nil || string(got) != string(custom) {
		t.Fatalf("init must keep an existing config, got %q (%v)", got, err)
	}
	if _, err := os.Stat(filepath.Join(project, "scripts")); err != nil {
		t.Fatalf("expected configured activities dir: %v", err)
	}
}
