package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/search"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Source: "test.json",
		Keys:   []string{"griffin", "horror"},
		Cards: []card.Card{
			{Name: "Griffin Sentinel", ImageURL: "g.jpg", Colors: "W", Tags: []string{"flier"}},
			{Name: "Swamp Horror", ImageURL: "s.jpg", Colors: "B", Tags: []string{"deathtouch"}, AutoTags: []string{"swamp", "horror"}},
		},
		Diagnostics: []catalog.Diagnostic{{Key: "broken", Reason: "name is required", Skipped: true}},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := New(":0", search.Default, nil)
	s.SetCatalog(testCatalog(), nil)
	return s
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func names(t *testing.T, body map[string]any) []string {
	t.Helper()
	data, ok := body["data"].([]any)
	require.True(t, ok, "data is not a list: %v", body)
	out := []string{}
	for _, item := range data {
		out = append(out, item.(map[string]any)["name"].(string))
	}
	return out
}

func TestHealth(t *testing.T) {
	rec, body := get(t, New(":0", search.Default, nil), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
}

func TestReadyReflectsLoadState(t *testing.T) {
	s := New(":0", search.Default, nil)

	rec, body := get(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "CATALOG_LOADING", body["code"])

	s.SetCatalog(nil, errors.New("dial tcp: refused"))
	rec, body = get(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "CATALOG_UNAVAILABLE", body["code"])
	assert.Equal(t, "failed to load catalog", body["error"])

	s.SetCatalog(testCatalog(), nil)
	rec, body = get(t, s, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["data"].(map[string]any)["cards"])
}

func TestResourceKeepsKeyOrder(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, ResourcePath, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	entries, err := catalog.DecodeEntries(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "griffin", entries[0].Key)
	assert.Equal(t, "horror", entries[1].Key)
}

func TestListCards(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Griffin Sentinel", "Swamp Horror"}},
		{"color_and_tag", "w flier", []string{"Griffin Sentinel"}},
		{"conjunctive_no_match", "flier deathtouch", []string{}},
		{"caption_tag", "swamp", []string{"Swamp Horror"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, s, "/api/v1/cards?q="+url.QueryEscape(tt.query))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, names(t, body))

			meta := body["meta"].(map[string]any)
			assert.EqualValues(t, 2, meta["total"])
			assert.EqualValues(t, len(tt.want), meta["matched"])
		})
	}
}

func TestListCardsIncludesGroups(t *testing.T) {
	_, body := get(t, newTestServer(t), "/api/v1/cards?q=horror")
	data := body["data"].([]any)
	require.Len(t, data, 1)

	cardBody := data[0].(map[string]any)
	assert.Equal(t, "horror", cardBody["key"])
	assert.Equal(t, []any{"black"}, cardBody["color_names"])

	groups := cardBody["groups"].([]any)
	require.Len(t, groups, 2)
	caption := groups[1].(map[string]any)
	assert.Equal(t, "Caption/NLP", caption["title"])
	chips := caption["chips"].([]any)
	assert.Equal(t, "horror", chips[0].(map[string]any)["label"])
	assert.Equal(t, "swamp", chips[1].(map[string]any)["label"])
}

func TestListCardsWhileFailed(t *testing.T) {
	s := New(":0", search.Default, nil)
	s.SetCatalog(nil, catalog.ErrDecode)

	rec, body := get(t, s, "/api/v1/cards")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "CATALOG_UNAVAILABLE", body["code"])
}

func TestListCardsEmptyCatalog(t *testing.T) {
	s := New(":0", search.Default, nil)
	s.SetCatalog(&catalog.Catalog{}, nil)

	rec, body := get(t, s, "/api/v1/cards?q=anything")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{}, names(t, body))
}

func TestGetCard(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/api/v1/cards/griffin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Griffin Sentinel", body["data"].(map[string]any)["name"])

	rec, body = get(t, s, "/api/v1/cards/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestListColors(t *testing.T) {
	_, body := get(t, New(":0", search.Default, nil), "/api/v1/colors")
	data := body["data"].([]any)
	require.Len(t, data, 6)

	blue := data[1].(map[string]any)
	assert.Equal(t, "blue", blue["name"])
	assert.Equal(t, "U", blue["letter"])
	assert.Equal(t, []any{"u", "blue"}, blue["aliases"])
}

func TestListDiagnostics(t *testing.T) {
	_, body := get(t, newTestServer(t), "/api/v1/diagnostics")
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "broken", data[0].(map[string]any)["key"])
	assert.Equal(t, true, data[0].(map[string]any)["skipped"])
}

func TestFoldTagCaseMatcher(t *testing.T) {
	s := New(":0", search.Matcher{FoldTagCase: true}, nil)
	s.SetCatalog(&catalog.Catalog{
		Keys:  []string{"dragon"},
		Cards: []card.Card{{Name: "Shivan Dragon", Tags: []string{"Flying"}}},
	}, nil)

	_, body := get(t, s, "/api/v1/cards?q=flying")
	assert.Equal(t, []string{"Shivan Dragon"}, names(t, body))
}

func TestShutdownStopsServing(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New("127.0.0.1:0", search.Default, nil)
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	require.NoError(t, s.Shutdown(time.Second))
	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
