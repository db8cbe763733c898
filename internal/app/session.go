// Package app wires configuration, the manifest, the menu and the loaded
// activities into one session. A session owns its registry: it is created at
// startup and cleared by Close.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrea/activity-menu/activities"
	"github.com/kingrea/activity-menu/internal/config"
)

// ErrNoActivities is returned when the manifest lists nothing.
var ErrNoActivities = errors.New("app: no activities configured")

// Formatter post-processes activity output before it is written.
type Formatter interface {
	Render(markdown string) (string, error)
}

// Session is one interactive run of the menu.
type Session struct {
	ID        string
	cfg       *config.Config
	registry  *activities.Registry
	loader    *activities.Loader
	menu      *activities.Menu
	manifests *activities.ManifestLoader
	formatter Formatter
	logger    *zap.Logger
}

// Option customizes a Session.
type Option func(*Session)

// WithFormatter renders activity output through f.
func WithFormatter(f Formatter) Option {
	return func(s *Session) { s.formatter = f }
}

// WithManifestLoader overrides how manifests are fetched.
func WithManifestLoader(l *activities.ManifestLoader) Option {
	return func(s *Session) {
		if l != nil {
			s.manifests = l
		}
	}
}

// NewSession creates a session with a fresh registry.
func NewSession(cfg *config.Config, selector activities.Selector, logger *zap.Logger, opts ...Option) *Session {
	id := uuid.NewString()
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))
	reg := activities.NewRegistry()
	loader := activities.NewLoader(reg, activities.WithLogger(logger))
	s := &Session{
		ID:        id,
		cfg:       cfg,
		registry:  reg,
		loader:    loader,
		menu:      activities.NewMenu(selector, loader, logger),
		manifests: &activities.ManifestLoader{},
		logger:    logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	logger.Debug("session opened", zap.String("manifest", cfg.Manifest()), zap.String("activities_dir", cfg.ActivitiesDir()))
	return s
}

// Registry exposes the session registry.
func (s *Session) Registry() *activities.Registry {
	return s.registry
}

// Catalog loads the configured manifest.
func (s *Session) Catalog(ctx context.Context) (*activities.Catalog, error) {
	return activities.LoadCatalogWith(ctx, s.manifests, s.cfg.Manifest())
}

// Present shows the menu for catalog using the configured label and key.
func (s *Session) Present(ctx context.Context, catalog *activities.Catalog) (string, bool, error) {
	menu := s.cfg.File.Menu
	name, ok, _, err := s.menu.Present(ctx, catalog, menu.Label, menu.Key, s.cfg.ActivitiesDir(), menu.Disabled)
	return name, ok, err
}

// Render writes the output of the loaded activity behind name to w.
func (s *Session) Render(catalog *activities.Catalog, name string, w io.Writer) error {
	rec, ok := catalog.Get(name)
	if !ok {
		return fmt.Errorf("app: %w: activity %q", activities.ErrNotFound, name)
	}
	// Identifiers are base names, so another directory's script of the same
	// name may hold the slot; only render the one this record points at.
	id := activities.ModuleName(rec.Path())
	activity, ok := s.registry.Lookup(id)
	if script, isScript := activity.(*activities.ScriptActivity); isScript &&
		script.Path() != filepath.Join(s.cfg.ActivitiesDir(), rec.Path()) {
		ok = false
	}
	if !ok {
		return fmt.Errorf("app: activity %q (%s) is not loaded; see %s", name, rec.Path(), s.cfg.LogPath())
	}
	var buf bytes.Buffer
	if err := activity.Render(&buf); err != nil {
		s.logger.Error("activity render failed", zap.String("activity", name), zap.Error(err))
		return fmt.Errorf("app: render %s: %w", name, err)
	}
	out := buf.String()
	if s.formatter != nil {
		formatted, err := s.formatter.Render(out)
		if err != nil {
			return err
		}
		out = formatted
	}
	_, err := io.WriteString(w, out)
	return err
}

// Run loads the catalog, presents the menu and renders the chosen activity.
// It reports whether anything was selected.
func (s *Session) Run(ctx context.Context, w io.Writer) (bool, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return false, err
	}
	if catalog == nil {
		return false, ErrNoActivities
	}
	name, ok, err := s.Present(ctx, catalog)
	if err != nil || !ok {
		return false, err
	}
	s.logger.Info("activity selected", zap.String("activity", name))
	return true, s.Render(catalog, name, w)
}

// Close clears the registry.
func (s *Session) Close() {
	s.registry.Reset()
	s.logger.Debug("session closed")
}

// ChooseByName returns a selector that picks the option called name without
// user interaction.
func ChooseByName(name string) activities.Selector {
	return activities.SelectorFunc(func(_ context.Context, req activities.SelectRequest) (activities.Option, bool, error) {
		for _, opt := range req.Options {
			if opt.Name == name {
				return opt, true, nil
			}
		}
		return activities.Option{}, false, fmt.Errorf("app: %w: activity %q", activities.ErrNotFound, name)
	})
}
