package activities

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

const (
	keyName = "name"
	keyURL  = "url"
)

// Record is one manifest entry. Keys other than name and url are opaque.
type Record map[string]any

// Name returns the display label, or "" when it is missing or not a string.
func (r Record) Name() string {
	s, _ := r[keyName].(string)
	return s
}

// Path returns the script path stored under the url key. The key name is
// historical: the value is always relative to the activities directory.
func (r Record) Path() string {
	s, _ := r[keyURL].(string)
	return s
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Catalog maps activity names to records in manifest order.
type Catalog struct {
	names   []string
	records map[string]Record
}

// Len returns the number of activities.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns activity names in display order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the record for name.
func (c *Catalog) Get(name string) (Record, bool) {
	if c == nil {
		return nil, false
	}
	rec, ok := c.records[name]
	return rec, ok
}

// Records returns the records in display order.
func (c *Catalog) Records() []Record {
	if c == nil {
		return nil
	}
	out := make([]Record, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.records[name])
	}
	return out
}

// All iterates name/record pairs in display order.
func (c *Catalog) All() iter.Seq2[string, Record] {
	return func(yield func(string, Record) bool) {
		if c == nil {
			return
		}
		for _, name := range c.names {
			if !yield(name, c.records[name]) {
				return
			}
		}
	}
}

// BuildCatalog converts a parsed manifest into a catalog. An empty document
// (null, false, 0, "", {} or []) yields a nil catalog and no error so callers
// can tell "nothing configured" apart from a populated manifest.
func BuildCatalog(doc Document) (*Catalog, error) {
	if isEmptyDocument(doc) {
		return nil, nil
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("activities: %w: manifest must be a sequence of records, got %T", ErrParse, doc)
	}
	cat := &Catalog{
		names:   make([]string, 0, len(items)),
		records: make(map[string]Record, len(items)),
	}
	for idx, item := range items {
		rec, err := toRecord(item)
		if err != nil {
			return nil, fmt.Errorf("activities: %w: record[%d]: %v", ErrSchema, idx, err)
		}
		name, ok := rec[keyName].(string)
		if !ok {
			return nil, fmt.Errorf("activities: %w: record[%d]: name must be a string", ErrSchema, idx)
		}
		if _, exists := cat.records[name]; !exists {
			cat.names = append(cat.names, name)
		}
		cat.records[name] = rec
	}
	return cat, nil
}

func isEmptyDocument(doc Document) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case map[any]any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case uint64:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

// LoadCatalog loads the manifest at path and builds its catalog.
func LoadCatalog(ctx context.Context, path string) (*Catalog, error) {
	return LoadCatalogWith(ctx, &ManifestLoader{}, path)
}

// LoadCatalogWith is LoadCatalog with an explicit loader. Remote locations
// skip the local existence check.
func LoadCatalogWith(ctx context.Context, loader *ManifestLoader, location string) (*Catalog, error) {
	if !isRemote(location) {
		info, err := os.Stat(location)
		if err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("activities: %w: no such file: '%s'", ErrNotFound, location)
		}
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, fmt.Errorf("activities: resolve %s: %w", location, err)
		}
		location = abs
	}
	doc, err := loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(doc)
}

func toRecord(item any) (Record, error) {
	switch m := item.(type) {
	case map[string]any:
		return Record(m), nil
	case map[any]any:
		rec := make(Record, len(m))
		for key, value := range m {
			rec[fmt.Sprint(key)] = value
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", item)
	}
}
