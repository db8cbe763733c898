package activities

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed manifest as produced by the YAML decoder. A well-formed
// manifest decodes to a []any of mappings.
type Document any

// ManifestLoader reads manifests from disk or over HTTP(S).
type ManifestLoader struct {
	// Client performs remote fetches. http.DefaultClient when nil.
	Client *http.Client
}

// LoadManifest loads location with a zero-value ManifestLoader.
func LoadManifest(ctx context.Context, location string) (Document, error) {
	return (&ManifestLoader{}).Load(ctx, location)
}

// Load fetches location once and decodes it as YAML. Locations starting with
// http:// or https:// are retrieved with a GET; anything else is a local path.
func (l *ManifestLoader) Load(ctx context.Context, location string) (Document, error) {
	if isRemote(location) {
		return l.loadRemote(ctx, location)
	}
	return loadLocal(location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *ManifestLoader) loadRemote(ctx context.Context, url string) (Document, error) {
	client := http.DefaultClient
	if l != nil && l.Client != nil {
		client = l.Client
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("activities: %w: build request for %s: %w", ErrRetrieval, url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activities: %w: get %s: %w", ErrRetrieval, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("activities: %w: get %s: %s", ErrRetrieval, url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("activities: %w: read %s: %w", ErrRetrieval, url, err)
	}
	return decodeManifest(url, body)
}

func loadLocal(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("activities: %w: no such file: '%s'", ErrNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("activities: read %s: %w", path, err)
	}
	return decodeManifest(path, data)
}

func decodeManifest(source string, data []byte) (Document, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("activities: %w: %s: %w", ErrParse, source, err)
	}
	return doc, nil
}
