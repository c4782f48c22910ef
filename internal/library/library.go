// Package library lists the named catalogs kept in the user's catalog
// library directory.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Entry is one catalog in the library
type Entry struct {
	Name        string // file name without .json, usable with --catalog
	Path        string
	Title       string
	Description string
	Source      string // upstream URL the file was downloaded from, if known
}

// Meta is the optional <name>.toml sidecar describing a catalog
type Meta struct {
	Catalog struct {
		Title       string `toml:"title"`
		Description string `toml:"description"`
		Source      string `toml:"source"`
	} `toml:"catalog"`
}

// ErrInvalidName is returned for catalog names that are not plain file names
var ErrInvalidName = errors.New("invalid catalog name")

// ValidateName checks that name can be stored as <name>.json inside the library
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "",
		name == "." || name == "..",
		strings.Contains(name, ".."),
		strings.ContainsAny(name, `/\`),
		filepath.Base(name) != name:
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// List returns the catalogs in dir sorted by name. A missing directory is an
// empty library.
func List(dir string) ([]Entry, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving catalog library: %w", err)
	}

	files, err := os.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog library: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".json" {
			continue
		}

		path := filepath.Join(resolved, f.Name())
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		name := strings.TrimSuffix(f.Name(), ".json")
		entry := Entry{Name: name, Path: path, Title: name}

		meta, err := LoadMeta(filepath.Join(resolved, name+".toml"))
		if err != nil {
			return nil, err
		}
		if meta != nil {
			if meta.Catalog.Title != "" {
				entry.Title = meta.Catalog.Title
			}
			entry.Description = meta.Catalog.Description
			entry.Source = meta.Catalog.Source
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// LoadMeta decodes a sidecar file; a missing file returns nil
func LoadMeta(path string) (*Meta, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var meta Meta
	if _, err := toml.DecodeFile(path, &meta); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filepath.Base(path), err)
	}
	return &meta, nil
}

// WriteMeta writes the sidecar for the catalog named name in dir
func WriteMeta(dir, name string, meta Meta) error {
	file, err := os.Create(filepath.Join(dir, name+".toml"))
	if err != nil {
		return fmt.Errorf("error creating catalog metadata: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(meta); err != nil {
		return fmt.Errorf("error encoding catalog metadata: %w", err)
	}
	return nil
}
