package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
assets:
  - id: asset123
    title: Test image
    altText: Resolved alt text
    tagIds: [nature]
    sys:
      createdAt: "2024-01-01T00:00:00Z"
    file:
      name: resolved.jpg
      mimeType: image/jpeg
      src: https://cdn.example.com/resolved.jpg
      size: 102400
      width: 1200
      height: 800
  - id: doc1
    file:
      name: manual.pdf
      mimeType: application/pdf
      src: https://cdn.example.com/manual.pdf
      size: 2048
`

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	asset := catalog.Lookup("asset123")
	require.NotNil(t, asset)
	assert.Equal(t, "Resolved alt text", asset.AltText)
	assert.Equal(t, []string{"nature"}, asset.TagIDs)
	require.NotNil(t, asset.Sys.CreatedAt)
	assert.Nil(t, asset.Sys.PublishedAt)
	require.NotNil(t, asset.File.Width)
	assert.Equal(t, 1200, *asset.File.Width)

	pdf := catalog.Lookup("doc1")
	require.NotNil(t, pdf)
	assert.Nil(t, pdf.File.Width)

	assert.Nil(t, catalog.Lookup("missing"))
}

func TestCatalogValidation(t *testing.T) {
	_, err := ParseCatalog([]byte(`
assets:
  - id: Bad-Id
    file: {name: a.jpg, mimeType: image/jpeg, src: "https://x.test/a.jpg"}
`))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte(`
assets:
  - id: a1
    file: {name: a.jpg, mimeType: image/jpeg, src: "not a url"}
`))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte(`
assets:
  - id: a1
    file: {name: a.jpg, mimeType: image/jpeg, src: "https://x.test/a.jpg"}
  - id: a1
    file: {name: b.jpg, mimeType: image/jpeg, src: "https://x.test/b.jpg"}
`))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseCatalog([]byte("assets: {"))
	assert.Error(t, err)
}

func TestLoadCatalogExpandsEnv(t *testing.T) {
	t.Setenv("RICHTEXT_CDN", "https://cdn.example.com")
	path := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assets:
  - id: a1
    file: {name: a.jpg, mimeType: image/jpeg, src: "${RICHTEXT_CDN}/a.jpg"}
`), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", catalog.Lookup("a1").File.Src)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolverCaches(t *testing.T) {
	calls := map[string]int{}
	asset := &AssetData{ID: "a1"}
	lookup := LookupFunc(func(id string) *AssetData {
		calls[id]++
		if id == "a1" {
			return asset
		}
		return nil
	})

	r, err := NewResolver(lookup, 0)
	require.NoError(t, err)
	defer r.Close()

	assert.Same(t, asset, r.Resolve("a1"))
	r.Wait()
	assert.Same(t, asset, r.Resolve("a1"))
	assert.Equal(t, 1, calls["a1"])

	assert.Nil(t, r.Resolve("missing"))
	assert.Nil(t, r.Resolve("missing"))
	assert.Equal(t, 2, calls["missing"])

	assert.Nil(t, r.Resolve(""))
	assert.Zero(t, calls[""])

	resolve := r.Func()
	assert.Same(t, asset, resolve("a1"))
}
