// Package dataset loads source vocabulary datasets: per-book JSON files
// of numbered sections, each holding an ordered list of entries.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSectionNotFound indicates the dataset has no section with the
// requested number.
var ErrSectionNotFound = errors.New("section not found in dataset")

// Entry is one vocabulary item as it appears in a source dataset.
type Entry struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
	DefNum       *int   `json:"def_num,omitempty"`
}

// Section is a numbered group of entries. Entry order is the order
// entries appear on the printed page and is preserved everywhere.
type Section struct {
	Number  int     `json:"section"`
	Entries []Entry `json:"entries"`
}

// Dataset is one source book's sections.
type Dataset struct {
	Sections []Section `json:"sections"`
}

// Section returns the section with the given number.
func (d *Dataset) Section(number int) (*Section, error) {
	for i := range d.Sections {
		if d.Sections[i].Number == number {
			return &d.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("%w: section %d", ErrSectionNotFound, number)
}

// Loader reads datasets from a directory of "{key_name}.json" files.
type Loader struct {
	dir string
}

// NewLoader returns a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path returns the file path for a dataset key.
func (l *Loader) Path(keyName string) string {
	return filepath.Join(l.dir, keyName+".json")
}

// Load reads and parses the dataset for a key.
func (l *Loader) Load(keyName string) (*Dataset, error) {
	path := l.Path(keyName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", keyName, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s at %s: %w", keyName, path, err)
	}
	return &ds, nil
}

// LoadSection loads a dataset and resolves one section in a single call.
func (l *Loader) LoadSection(keyName string, number int) (*Section, error) {
	ds, err := l.Load(keyName)
	if err != nil {
		return nil, err
	}
	return ds.Section(number)
}
