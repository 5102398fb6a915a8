// Package catalog provides immutable, ordered reference lists (source
// datasets, themes, models) with index-of-key and key-at-index lookups.
// Worksheet ids encode catalog positions, so entry order is load-order
// and never re-sorted.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates a key or index outside the catalog.
var ErrNotFound = errors.New("not found in catalog")

// Entry is a single catalog record. KeyName is the unique lookup key;
// the remaining fields are presentation metadata.
type Entry struct {
	KeyName    string `json:"key_name"`
	Title      string `json:"title,omitempty"`
	TitleAbbr  string `json:"title_abbr,omitempty"`
	CSSClass   string `json:"css_class,omitempty"`
	UITitle    string `json:"ui_title,omitempty"`
	UISubtitle string `json:"ui_subtitle,omitempty"`
}

// Catalog is an ordered, uniquely-keyed list of entries.
type Catalog struct {
	name    string
	entries []Entry
	index   map[string]int
}

// New builds a catalog from entries, preserving order.
// Entries with empty keys or duplicate keys are rejected.
func New(name string, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		name:    name,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.KeyName == "" {
			return nil, fmt.Errorf("catalog %s: entry with empty key_name", name)
		}
		if _, ok := c.index[e.KeyName]; ok {
			return nil, fmt.Errorf("catalog %s: duplicate key_name %q", name, e.KeyName)
		}
		if e.Title == "" {
			e.Title = defaultTitle(e.KeyName)
		}
		c.index[e.KeyName] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Name returns the catalog name ("source_datasets", "themes", "models").
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// IndexOf returns the position of the entry with the given key_name.
func (c *Catalog) IndexOf(keyName string) (int, error) {
	i, ok := c.index[keyName]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no entry %q", ErrNotFound, c.name, keyName)
	}
	return i, nil
}

// KeyAt returns the key_name of the entry at the given position.
func (c *Catalog) KeyAt(i int) (string, error) {
	if i < 0 || i >= len(c.entries) {
		return "", fmt.Errorf("%w: %s has no index %d (len %d)", ErrNotFound, c.name, i, len(c.entries))
	}
	return c.entries[i].KeyName, nil
}

// Get returns the entry with the given key_name.
func (c *Catalog) Get(keyName string) (Entry, error) {
	i, err := c.IndexOf(keyName)
	if err != nil {
		return Entry{}, err
	}
	return c.entries[i], nil
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// defaultTitle derives a display title from a key like "ww3000_bk3".
func defaultTitle(keyName string) string {
	words := strings.Split(keyName, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
