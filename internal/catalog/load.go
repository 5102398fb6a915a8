package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Reference data file names within the reference data directory.
const (
	SourceDatasetsFile = "source_datasets.json"
	ThemesFile         = "themes.json"
	ModelsFile         = "models.json"
)

// Set holds the three catalogs the worksheet pipeline needs.
type Set struct {
	Datasets *Catalog
	Themes   *Catalog
	Models   *Catalog
}

// LoadFile reads a catalog from a JSON file. The file may contain either
// a list of entries or a single entry object.
func LoadFile(name, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A single object is accepted as a one-entry catalog.
		var single Entry
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse catalog %s at %s: %w", name, path, err)
		}
		entries = []Entry{single}
	}

	return New(name, entries)
}

// LoadDir loads the full catalog set from a reference data directory.
func LoadDir(dir string) (*Set, error) {
	datasets, err := LoadFile("source_datasets", filepath.Join(dir, SourceDatasetsFile))
	if err != nil {
		return nil, err
	}
	themes, err := LoadFile("themes", filepath.Join(dir, ThemesFile))
	if err != nil {
		return nil, err
	}
	models, err := LoadFile("models", filepath.Join(dir, ModelsFile))
	if err != nil {
		return nil, err
	}
	return &Set{Datasets: datasets, Themes: themes, Models: models}, nil
}
