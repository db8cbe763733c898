// cmd/activities/main.go
//
// Entry point for the activities CLI.
//
// Flow:
// 1. Load activities.yaml (flags override manifest and directory)
// 2. Build the catalog from the manifest
// 3. Show the menu, load the chosen script, render its output

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kingrea/activity-menu/internal/config"
	"github.com/kingrea/activity-menu/internal/logging"
)

var (
	projectDir    string
	configPath    string
	manifestFlag  string
	activitiesDir string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "activities",
	Short: "Menu of YAML-declared activities backed by Go scripts",
	Long: `activities reads a manifest of activities, shows them as a menu and
interprets the chosen activity's Go script to render it.

Run without arguments to open the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&projectDir, "project", "", "project directory (defaults to cwd)")
	flags.StringVar(&configPath, "config", "", "config file (defaults to <project>/activities.yaml)")
	flags.StringVar(&manifestFlag, "manifest", "", "manifest path or http(s) URL")
	flags.StringVar(&activitiesDir, "dir", "", "directory holding activity scripts")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(initCmd, menuCmd, listCmd, validateCmd, runCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveProjectDir() (string, error) {
	project := projectDir
	if project == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		project = cwd
	}
	abs, err := filepath.Abs(project)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	return abs, nil
}

// loadConfig resolves the project directory, reads the config file and
// applies flag overrides.
func loadConfig() (*config.Config, error) {
	abs, err := resolveProjectDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(abs, configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(manifestFlag, activitiesDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openLogger(cfg *config.Config) *logging.Logger {
	logger, err := logging.New(cfg.LogPath(), verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.Nop()
	}
	return logger
}
