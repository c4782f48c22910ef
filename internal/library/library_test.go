package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestListMissingDirectory(t *testing.T) {
	entries, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListSortedWithMeta(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "zendikar.json"), `{}`)
	write(t, filepath.Join(dir, "alpha.json"), `{}`)
	write(t, filepath.Join(dir, "notes.txt"), `ignored`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.json"), 0755))

	var meta Meta
	meta.Catalog.Title = "Alpha Edition"
	meta.Catalog.Source = "https://example.org/alpha.json"
	require.NoError(t, WriteMeta(dir, "alpha", meta))

	entries, err := List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "Alpha Edition", entries[0].Title)
	assert.Equal(t, "https://example.org/alpha.json", entries[0].Source)

	assert.Equal(t, "zendikar", entries[1].Name)
	assert.Equal(t, "zendikar", entries[1].Title)
	assert.Empty(t, entries[1].Description)
}

func TestListBadMeta(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.json"), `{}`)
	write(t, filepath.Join(dir, "alpha.toml"), `[catalog`)

	_, err := List(dir)
	assert.ErrorContains(t, err, "alpha.toml")
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"alpha", true},
		{"alpha-2024_v1", true},
		{"", false},
		{"..", false},
		{"../x", false},
		{"sets/alpha", false},
		{`sets\alpha`, false},
		{"a..b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestLoadMetaMissing(t *testing.T) {
	meta, err := LoadMeta(filepath.Join(t.TempDir(), "x.toml"))
	require.NoError(t, err)
	assert.Nil(t, meta)
}
