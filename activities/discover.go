package activities

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

const checkConcurrency = 8

// Discover lists the .go scripts under rootDir as slash-separated paths
// relative to rootDir. Nothing is interpreted. Sibling packages kept under
// rootDir/src are skipped.
func Discover(rootDir string) ([]string, error) {
	if err := requireDir(rootDir); err != nil {
		return nil, err
	}
	var scripts []string
	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != rootDir && entry.Name() == "src" && filepath.Dir(path) == filepath.Clean(rootDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(entry.Name()) != scriptExt {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		scripts = append(scripts, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("activities: scan %s: %w", rootDir, err)
	}
	sort.Strings(scripts)
	return scripts, nil
}

// ScriptIssue describes a catalog entry whose script cannot be loaded.
type ScriptIssue struct {
	Activity string
	Path     string
	Err      error
}

func (i ScriptIssue) Error() string {
	return fmt.Sprintf("%s (%s): %v", i.Activity, i.Path, i.Err)
}

// CheckScripts verifies every catalog entry points at a syntactically valid
// script under rootDir. Scripts are parsed, never executed. Issues are
// returned in catalog order.
func CheckScripts(ctx context.Context, catalog *Catalog, rootDir string) ([]ScriptIssue, error) {
	options, err := Options(catalog)
	if err != nil {
		return nil, err
	}
	if err := requireDir(rootDir); err != nil {
		return nil, err
	}
	results := make([]error, len(options))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for idx, opt := range options {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[idx] = checkScript(opt.Path, rootDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var issues []ScriptIssue
	for idx, err := range results {
		if err == nil {
			continue
		}
		issues = append(issues, ScriptIssue{Activity: options[idx].Name, Path: options[idx].Path, Err: err})
	}
	return issues, nil
}

func checkScript(relativePath, rootDir string) error {
	path, err := resolveScript(relativePath, rootDir)
	if err != nil {
		return err
	}
	if filepath.Ext(path) != scriptExt {
		return fmt.Errorf("activities: %w: %s", ErrUnsupported, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := parser.ParseFile(token.NewFileSet(), path, src, parser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("activities: %w: %w", ErrParse, err)
	}
	if file.Name.Name != "main" {
		return fmt.Errorf("activities: %w: %s declares package %s, want main", ErrSchema, path, file.Name.Name)
	}
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil && fn.Name.Name == "Render" {
			return nil
		}
	}
	return fmt.Errorf("activities: %w: %s must define %s", ErrSchema, path, renderSignature)
}
