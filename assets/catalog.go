package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lookup finds assets by id. A missing asset is nil.
type Lookup interface {
	Lookup(id string) *AssetData
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(id string) *AssetData

// Lookup calls f.
func (f LookupFunc) Lookup(id string) *AssetData { return f(id) }

// Catalog is a fixed set of assets, indexed by id.
type Catalog struct {
	byID map[string]*AssetData
}

type catalogFile struct {
	Assets []AssetData `yaml:"assets"`
}

// NewCatalog validates the assets and indexes them.
func NewCatalog(list []AssetData) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*AssetData, len(list))}
	for i := range list {
		asset := &list[i]
		if err := asset.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[asset.ID]; ok {
			return nil, fmt.Errorf("duplicate asset %q", asset.ID)
		}
		c.byID[asset.ID] = asset
	}
	return c, nil
}

// LoadCatalog reads a catalog from a YAML file with an assets list.
// Environment variables in the file are expanded.
func LoadCatalog(path string) (*Catalog, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read asset catalog: %w", err)
	}
	return ParseCatalog([]byte(os.ExpandEnv(string(fileBytes))))
}

// ParseCatalog reads a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cannot parse asset catalog: %w", err)
	}
	return NewCatalog(file.Assets)
}

// Lookup returns the asset with the given id, or nil.
func (c *Catalog) Lookup(id string) *AssetData {
	return c.byID[id]
}

// Len is the number of assets in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}
