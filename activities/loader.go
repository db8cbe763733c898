package activities

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
)

const (
	scriptExt       = ".go"
	renderSymbol    = "main.Render"
	renderSignature = "func Render(w io.Writer) error"
)

// Loader interprets activity scripts and records them in a Registry.
type Loader struct {
	registry *Registry
	logger   *zap.Logger
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithLogger routes load diagnostics to logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a loader that stores successful loads in reg.
func NewLoader(reg *Registry, opts ...LoaderOption) *Loader {
	if reg == nil {
		reg = NewRegistry()
	}
	l := &Loader{registry: reg, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Registry returns the registry the loader writes to.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// ModuleName derives the registry identifier for a script: its base name
// without extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadError is a contained load failure: the script exists but could not be
// interpreted into an activity.
type LoadError struct {
	Module string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("activities: load %s: %v", e.Module, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load interprets rootDir/relativePath and registers it under ModuleName.
//
// Precondition failures (blank arguments, missing root directory, missing
// script) are returned as errors. Everything past the preconditions is
// contained: interpreter errors, panics in top-level code and a missing
// Render function are logged and reported as false.
func (l *Loader) Load(relativePath, rootDir string) (bool, error) {
	activity, err := l.LoadActivity(relativePath, rootDir)
	var failed *LoadError
	if errors.As(err, &failed) {
		l.logger.Error("failed to load activity module",
			zap.String("module", failed.Module),
			zap.String("path", failed.Path),
			zap.Error(failed.Err))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	l.logger.Info("activity module loaded", zap.String("module", activity.Name()), zap.String("path", activity.Path()))
	return true, nil
}

// LoadActivity behaves like Load but returns the loaded activity. Failures
// past the preconditions come back as *LoadError instead of being logged.
func (l *Loader) LoadActivity(relativePath, rootDir string) (*ScriptActivity, error) {
	path, err := resolveScript(relativePath, rootDir)
	if err != nil {
		return nil, err
	}
	id := ModuleName(path)
	activity, err := l.interpret(id, path, rootDir)
	if err != nil {
		return nil, &LoadError{Module: id, Path: path, Err: err}
	}
	l.registry.Store(id, activity)
	return activity, nil
}

func resolveScript(relativePath, rootDir string) (string, error) {
	if strings.TrimSpace(rootDir) == "" {
		return "", fmt.Errorf("activities: %w: activities directory must be a non-empty path", ErrTypeMismatch)
	}
	if strings.TrimSpace(relativePath) == "" {
		return "", fmt.Errorf("activities: %w: script path must be a non-empty path", ErrTypeMismatch)
	}
	if err := requireDir(rootDir); err != nil {
		return "", err
	}
	path := filepath.Join(rootDir, relativePath)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("activities: %w: no such file: '%s'", ErrNotFound, path)
	}
	return path, nil
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("activities: %w: no such directory: '%s'", ErrNotADirectory, dir)
	}
	return nil
}

func (l *Loader) interpret(id, path, rootDir string) (activity *ScriptActivity, err error) {
	if filepath.Ext(path) != scriptExt {
		return nil, fmt.Errorf("activities: %w: %s", ErrUnsupported, path)
	}
	defer func() {
		if r := recover(); r != nil {
			activity = nil
			err = fmt.Errorf("activities: %s panicked: %v", path, r)
		}
	}()
	i := interp.New(interp.Options{GoPath: rootDir})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("activities: load stdlib symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("activities: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(renderSymbol)
	if err != nil {
		return nil, fmt.Errorf("activities: %s must define %s: %w", path, renderSignature, err)
	}
	render, err := renderFunc(fnValue)
	if err != nil {
		return nil, fmt.Errorf("activities: %s: %w", path, err)
	}
	return &ScriptActivity{id: id, path: path, render: render}, nil
}

var (
	writerType = reflect.TypeOf((*io.Writer)(nil)).Elem()
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

func renderFunc(value reflect.Value) (func(io.Writer) error, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("Render is not a function")
	}
	if fn, ok := value.Interface().(func(io.Writer) error); ok {
		return fn, nil
	}
	typ := value.Type()
	if typ.NumIn() != 1 || !writerType.AssignableTo(typ.In(0)) || typ.NumOut() != 1 || typ.Out(0) != errorType {
		return nil, fmt.Errorf("Render must have signature %s", renderSignature)
	}
	return func(w io.Writer) error {
		out := value.Call([]reflect.Value{reflect.ValueOf(&w).Elem()})
		if out[0].IsNil() {
			return nil
		}
		if e, ok := out[0].Interface().(error); ok {
			return e
		}
		return fmt.Errorf("Render returned non-error value")
	}, nil
}

// ScriptActivity is an activity backed by an interpreted script.
type ScriptActivity struct {
	id     string
	path   string
	render func(io.Writer) error
}

// Name returns the module identifier.
func (a *ScriptActivity) Name() string { return a.id }

// Path returns the script location on disk.
func (a *ScriptActivity) Path() string { return a.path }

// Render runs the script's Render function. Panics surface as errors.
func (a *ScriptActivity) Render(w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("activities: %s render panicked: %v", a.id, r)
		}
	}()
	return a.render(w)
}
