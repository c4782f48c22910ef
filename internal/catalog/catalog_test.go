package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardtags/internal/card"
)

const sampleCatalog = `{
	"z-first": {"name": "Griffin Sentinel", "image_url": "img/griffin.jpg", "colors": "W", "tags": ["flier"]},
	"a-second": {"name": "Swamp Horror", "image_url": "https://cdn.test/horror.jpg", "colors": "B", "tags": ["deathtouch"]},
	"broken": {"image_url": "nameless.jpg"},
	"m-third": {"name": "Imageless Wisp", "colors": "U"}
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card_tags_merged.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func cardNames(cat *Catalog) []string {
	var out []string
	for _, c := range cat.Cards {
		out = append(out, c.Name)
	}
	return out
}

func TestDecodeEntriesKeepsDocumentOrder(t *testing.T) {
	entries, err := DecodeEntries([]byte(`{"b": 1, "a": 2, "c": 3}`))
	require.NoError(t, err)

	keys := []string{}
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"b", "a", "c"}, keys)
}

func TestDecodeEntriesDuplicateKeyKeepsLastValue(t *testing.T) {
	entries, err := DecodeEntries([]byte(`{"x": 1, "y": 2, "x": 3}`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].Key)
	assert.JSONEq(t, `3`, string(entries[0].Raw))
}

func TestDecodeEntriesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"array", `[{"name": "x"}]`},
		{"truncated", `{"a": {"name": "x"}`},
		{"garbage", `not json`},
		{"trailing", `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEntries([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode), err.Error())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	cat, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Griffin Sentinel", "Swamp Horror", "Imageless Wisp"}, cardNames(cat))
	assert.Equal(t, []string{"z-first", "a-second", "m-third"}, cat.Keys)

	skipped := cat.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "broken", skipped[0].Key)

	var flagged []string
	for _, d := range cat.Diagnostics {
		if !d.Skipped {
			flagged = append(flagged, d.Key)
		}
	}
	assert.Equal(t, []string{"m-third"}, flagged)
}

func TestLoadSkippedRecordWarningsAreMarkedSkipped(t *testing.T) {
	cat, err := Load(context.Background(), writeCatalog(t, `{"k": {"colors": "X"}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())

	require.Len(t, cat.Diagnostics, 3)
	for _, d := range cat.Diagnostics {
		assert.Equal(t, "k", d.Key)
		assert.True(t, d.Skipped, d.Reason)
	}
	assert.Len(t, cat.Skipped(), 3)
	assert.Equal(t, []string{"k"}, cat.SkippedKeys())
}

func TestLoadEmptyObjectIsNotAnError(t *testing.T) {
	cat, err := Load(context.Background(), writeCatalog(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())

	state := Result(cat, err)
	assert.True(t, state.Empty())
	assert.Equal(t, "The catalog is empty.", state.Message())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(context.Background(), writeCatalog(t, `{"a": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestLoadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resources/card_tags_merged.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleCatalog))
	}))
	defer srv.Close()

	loader := NewLoader(5*time.Second, nil)

	cat, err := loader.Load(context.Background(), srv.URL+"/resources/card_tags_merged.json")
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())

	_, err = loader.Load(context.Background(), srv.URL+"/elsewhere.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
	assert.Contains(t, err.Error(), "404")
}

func TestLoadHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewLoader(5*time.Second, nil).Load(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestResolveImage(t *testing.T) {
	local := &Catalog{Source: filepath.Join("data", "resources", "card_tags_merged.json")}
	assert.Equal(t, filepath.Join("data", "resources", "img", "a.jpg"), local.ResolveImage("img/a.jpg"))
	assert.Equal(t, "https://cdn.test/a.jpg", local.ResolveImage("https://cdn.test/a.jpg"))
	assert.Equal(t, "", local.ResolveImage(""))

	remote := &Catalog{Source: "https://cards.test/resources/card_tags_merged.json"}
	assert.Equal(t, "https://cards.test/resources/img/a.jpg", remote.ResolveImage("img/a.jpg"))
	assert.Equal(t, "https://cards.test/img/a.jpg", remote.ResolveImage("/img/a.jpg"))
}

func TestWithResolvedImages(t *testing.T) {
	cat := &Catalog{
		Source: "https://cards.test/sets/alpha.json",
		Keys:   []string{"a", "b", "c"},
		Cards: []card.Card{
			{Name: "A", ImageURL: "img/a.jpg"},
			{Name: "B", ImageURL: "https://cdn.test/b.jpg"},
			{Name: "C"},
		},
	}

	out := cat.WithResolvedImages()
	assert.Equal(t, "https://cards.test/sets/img/a.jpg", out.Cards[0].ImageURL)
	assert.Equal(t, "https://cdn.test/b.jpg", out.Cards[1].ImageURL)
	assert.Equal(t, "", out.Cards[2].ImageURL)

	// the original is untouched
	assert.Equal(t, "img/a.jpg", cat.Cards[0].ImageURL)
}

func TestMarshalKeepsKeyOrder(t *testing.T) {
	cat, err := Load(context.Background(), writeCatalog(t, `{"b": {"name": "B", "image_url": "b"}, "a": {"name": "A", "image_url": "a"}}`))
	require.NoError(t, err)

	data, err := cat.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"name":"B","image_url":"b","colors":""},"a":{"name":"A","image_url":"a","colors":""}}`, string(data))
}

func TestFind(t *testing.T) {
	cat, err := Load(context.Background(), writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	c, ok := cat.Find("swamp horror")
	require.True(t, ok)
	assert.Equal(t, "Swamp Horror", c.Name)

	_, ok = cat.Find("Swamp")
	assert.False(t, ok)
}

func TestStateMessages(t *testing.T) {
	assert.Equal(t, "Loading catalog...", LoadingState().Message())

	failed := Result(nil, ErrFetch)
	assert.Equal(t, Failed, failed.Status)
	assert.Contains(t, failed.Message(), "Failed to load catalog")
	assert.False(t, failed.Empty())

	loaded := Result(&Catalog{Cards: []card.Card{{Name: "Griffin Sentinel"}}}, nil)
	assert.Equal(t, "", loaded.Message())
	assert.Equal(t, "loaded", loaded.Status.String())
}
