package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the hero home directory.
	DefaultDirName = ".hero"

	// DatastoreDirName is the subdirectory holding cached worksheets.
	DatastoreDirName = "datastore"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the hero home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.hero).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// DatastorePath returns the root of the worksheet cache.
func (d *Dir) DatastorePath() string {
	return filepath.Join(d.path, DatastoreDirName)
}

// ReferenceDataPath returns the directory holding the catalog files
// (source_datasets.json, themes.json, models.json).
func (d *Dir) ReferenceDataPath() string {
	return filepath.Join(d.path, "reference_data")
}

// SourceDatasetsPath returns the directory of per-book dataset files.
func (d *Dir) SourceDatasetsPath() string {
	return filepath.Join(d.path, "source_datasets")
}

// ThemesPath returns the directory of per-theme content files.
func (d *Dir) ThemesPath() string {
	return filepath.Join(d.path, "themes")
}

// PromptPath returns the sentence-generation system prompt file.
func (d *Dir) PromptPath() string {
	return filepath.Join(d.path, "prompts", "generate_sentences.txt")
}

// CallLogPath returns the generation call record file.
func (d *Dir) CallLogPath() string {
	return filepath.Join(d.path, "logs", "generation_calls.jsonl")
}

// ExportsDir returns the directory for rendered worksheet PDFs.
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, "exports")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	dirs := []string{
		d.DatastorePath(),
		d.ReferenceDataPath(),
		d.SourceDatasetsPath(),
		d.ThemesPath(),
		filepath.Dir(d.PromptPath()),
		filepath.Dir(d.CallLogPath()),
		d.ExportsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
