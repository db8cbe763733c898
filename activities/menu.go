package activities

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Option is one choice shown by a Selector. Only Name is displayed.
type Option struct {
	Name string
	Path string
}

// SelectRequest describes a single-choice widget.
type SelectRequest struct {
	Label    string
	Key      string
	Options  []Option
	Index    int
	Disabled bool
}

// Selector renders a single-choice widget and reports the chosen option.
// ok is false when the widget has no active selection.
type Selector interface {
	Select(ctx context.Context, req SelectRequest) (choice Option, ok bool, err error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, req SelectRequest) (Option, bool, error)

func (f SelectorFunc) Select(ctx context.Context, req SelectRequest) (Option, bool, error) {
	return f(ctx, req)
}

// Menu wires a catalog into a Selector and loads the chosen activity.
type Menu struct {
	selector Selector
	loader   *Loader
	logger   *zap.Logger
}

// NewMenu returns a menu that asks selector for a choice and loads it with loader.
func NewMenu(selector Selector, loader *Loader, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = NewLoader(nil, WithLogger(logger))
	}
	return &Menu{selector: selector, loader: loader, logger: logger}
}

// Loader returns the loader used for selections.
func (m *Menu) Loader() *Loader {
	return m.loader
}

// Options validates catalog and returns its widget options in display order.
func Options(catalog *Catalog) ([]Option, error) {
	records := catalog.Records()
	options := make([]Option, 0, len(records))
	for idx, rec := range records {
		if !rec.Has(keyName) || !rec.Has(keyURL) {
			return nil, fmt.Errorf("activities: %w: activity %d must have both 'name' and 'url'", ErrSchema, idx)
		}
		options = append(options, Option{Name: rec.Name(), Path: rec.Path()})
	}
	return options, nil
}

// Present shows the catalog as a single-choice widget. When an activity is
// chosen its script is loaded from rootDir before returning. A missing script
// is an error; a script that fails to interpret is logged by the loader and
// does not affect the returned selection. The catalog is returned unchanged.
func (m *Menu) Present(ctx context.Context, catalog *Catalog, label, key, rootDir string, disabled bool) (string, bool, *Catalog, error) {
	options, err := Options(catalog)
	if err != nil {
		return "", false, catalog, err
	}
	if err := requireDir(rootDir); err != nil {
		return "", false, catalog, err
	}
	choice, ok, err := m.selector.Select(ctx, SelectRequest{
		Label:    label,
		Key:      key,
		Options:  options,
		Index:    0,
		Disabled: disabled,
	})
	if err != nil {
		return "", false, catalog, fmt.Errorf("activities: menu %s: %w", key, err)
	}
	if !ok {
		return "", false, catalog, nil
	}
	if _, err := m.loader.Load(choice.Path, rootDir); err != nil {
		return "", false, catalog, err
	}
	m.logger.Debug("activity chosen", zap.String("activity", choice.Name), zap.String("key", key))
	return choice.Name, true, catalog, nil
}
