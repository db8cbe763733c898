package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/activity-menu/activities"
	"github.com/kingrea/activity-menu/internal/app"
	"github.com/kingrea/activity-menu/internal/config"
	"github.com/kingrea/activity-menu/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create activities.yaml, the state directory and the activities directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := resolveProjectDir()
		if err != nil {
			return err
		}
		if err := config.InitDir(project); err != nil {
			return fmt.Errorf("init %s: %w", project, err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.ActivitiesDir(), 0o755); err != nil {
			return fmt.Errorf("create activities dir: %w", err)
		}
		cmd.Printf("config:     %s\n", cfg.Path)
		cmd.Printf("manifest:   %s\n", cfg.Manifest())
		cmd.Printf("activities: %s\n", cfg.ActivitiesDir())
		return nil
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive activities menu",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print activities in manifest order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := activities.LoadCatalog(cmd.Context(), cfg.Manifest())
		if err != nil {
			return err
		}
		printCatalog(cmd, catalog)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the manifest and every referenced script without running them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := activities.LoadCatalog(cmd.Context(), cfg.Manifest())
		if err != nil {
			return err
		}
		if catalog == nil {
			return app.ErrNoActivities
		}
		issues, err := activities.CheckScripts(cmd.Context(), catalog, cfg.ActivitiesDir())
		if err != nil {
			return err
		}
		for _, issue := range issues {
			cmd.PrintErrf("✗ %s\n", issue.Error())
		}
		scripts, err := activities.Discover(cfg.ActivitiesDir())
		if err != nil {
			return err
		}
		referenced := map[string]struct{}{}
		for _, rec := range catalog.Records() {
			referenced[filepath.ToSlash(filepath.Clean(rec.Path()))] = struct{}{}
		}
		for _, script := range scripts {
			if _, ok := referenced[script]; !ok {
				cmd.Printf("· %s is not referenced by the manifest\n", script)
			}
		}
		if len(issues) > 0 {
			return fmt.Errorf("%d of %d activities have problems", len(issues), catalog.Len())
		}
		cmd.Printf("✓ %d activities OK\n", catalog.Len())
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <activity>",
	Short: "Load and render one activity by name without the menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runSession(cmd, cfg, app.ChooseByName(args[0]))
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint the catalog whenever the manifest changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	branding := tui.Branding{Title: cfg.File.Branding.Title, Caption: cfg.File.Branding.Caption}
	return runSession(cmd, cfg, tui.NewSelector(branding, tea.WithAltScreen()))
}

func runSession(cmd *cobra.Command, cfg *config.Config, selector activities.Selector) error {
	logger := openLogger(cfg)
	defer logger.Close()

	session := app.NewSession(cfg, selector, logger.Logger, app.WithFormatter(tui.NewMarkdownRenderer("auto", 80)))
	defer session.Close()

	ok, err := session.Run(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		logger.Error("session failed", zap.Error(err))
		return err
	}
	if !ok {
		cmd.Println("No activity selected.")
	}
	return nil
}

func printCatalog(cmd *cobra.Command, catalog *activities.Catalog) {
	if catalog == nil {
		cmd.Println("No activities configured.")
		return
	}
	for name, rec := range catalog.All() {
		cmd.Printf("%-24s %s\n", name, rec.Path())
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	manifest := cfg.Manifest()
	if _, err := os.Stat(manifest); err != nil {
		return fmt.Errorf("watch needs a local manifest: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(manifest)); err != nil {
		return fmt.Errorf("watch %s: %w", manifest, err)
	}

	reload := func() {
		catalog, err := activities.LoadCatalog(cmd.Context(), manifest)
		if err != nil {
			cmd.PrintErrf("✗ %v\n", err)
			return
		}
		printCatalog(cmd, catalog)
	}
	reload()
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(manifest) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				cmd.Printf("-- %s changed\n", filepath.Base(manifest))
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				return fmt.Errorf("watch %s: %w", manifest, err)
			}
		}
	}
}
