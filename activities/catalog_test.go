package activities

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, src string) Document {
	t.Helper()
	var doc any
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc
}

func TestBuildCatalogPreservesManifestOrder(t *testing.T) {
	doc := decode(t, `
- {name: Zeta, url: z.go}
- {name: Alpha, url: a.go}
- {name: Mid, url: m.go, icon: star}
`)
	cat, err := BuildCatalog(doc)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Zeta", "Alpha", "Mid"}, cat.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	rec, ok := cat.Get("Mid")
	require.True(t, ok)
	assert.Equal(t, "m.go", rec.Path())
	assert.Equal(t, "star", rec["icon"])

	var visited []string
	for name, rec := range cat.All() {
		assert.Equal(t, name, rec.Name())
		visited = append(visited, name)
	}
	assert.Equal(t, cat.Names(), visited)
}

func TestBuildCatalogDuplicateNamesLastWins(t *testing.T) {
	doc := decode(t, `
- {name: A, url: first.go}
- {name: B, url: b.go}
- {name: A, url: second.go}
`)
	cat, err := BuildCatalog(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []string{"A", "B"}, cat.Names())
	rec, _ := cat.Get("A")
	assert.Equal(t, "second.go", rec.Path())
}

func TestBuildCatalogEmptyDocumentIsAbsent(t *testing.T) {
	for _, src := range []string{"", "~", "[]", "{}", "false", "0", "''"} {
		cat, err := BuildCatalog(decode(t, src))
		require.NoError(t, err, "document %q", src)
		assert.Nil(t, cat, "document %q", src)
	}
	var absent *Catalog
	assert.Equal(t, 0, absent.Len())
	assert.Nil(t, absent.Names())
}

func TestBuildCatalogDoesNotRequireURL(t *testing.T) {
	cat, err := BuildCatalog(decode(t, "- name: Draft\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Draft"}, cat.Names())
}

func TestBuildCatalogRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "mapping document", src: "name: A\nurl: a.go\n", want: ErrParse},
		{name: "scalar record", src: "- just-a-string\n", want: ErrSchema},
		{name: "missing name", src: "- url: a.go\n", want: ErrSchema},
		{name: "non-string name", src: "- {name: [1, 2], url: a.go}\n", want: ErrSchema},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildCatalog(decode(t, tc.src))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(context.Background(), writeManifest(t, sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, []string{"Overview", "Sensors"}, cat.Names())

	_, err = LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)

	cat, err = LoadCatalog(context.Background(), writeManifest(t, "# no activities yet\n"))
	require.NoError(t, err)
	assert.Nil(t, cat)
}
