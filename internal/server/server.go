// Package server exposes the catalog over HTTP: the raw catalog resource the
// gallery fetches, plus a search API built on the same match engine.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/colors"
	"github.com/arcanaland/cardtags/internal/search"
	"github.com/arcanaland/cardtags/internal/tags"
)

// ResourcePath is where the raw catalog object is served
const ResourcePath = "/resources/card_tags_merged.json"

// Server serves one catalog, loaded once
type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     *zap.Logger
	matcher    search.Matcher

	mu    sync.RWMutex
	state catalog.State
}

// New builds the router. The catalog starts in the loading state; call
// SetCatalog with the load result.
func New(addr string, matcher search.Matcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger:  logger,
		matcher: matcher,
		state:   catalog.LoadingState(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.CleanPath)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Get(ResourcePath, s.resource)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/cards", s.listCards)
		api.Get("/cards/{key}", s.getCard)
		api.Get("/colors", s.listColors)
		api.Get("/diagnostics", s.listDiagnostics)
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetCatalog records the outcome of the catalog load
func (s *Server) SetCatalog(cat *catalog.Catalog, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = catalog.Result(cat, err)
}

// State returns the current load state
func (s *Server) State() catalog.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ListenAndServe blocks until the server is shut down or fails
func (s *Server) ListenAndServe() error {
	s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// loadedCatalog returns the catalog or the error explaining why there is none
func (s *Server) loadedCatalog() (*catalog.Catalog, error) {
	state := s.State()
	switch state.Status {
	case catalog.Loading:
		return nil, catalogLoading()
	case catalog.Failed:
		return nil, catalogUnavailable(state.Err)
	}
	if state.Catalog == nil {
		return &catalog.Catalog{}, nil
	}
	return state.Catalog, nil
}

// cardView is a card as returned by the API
type cardView struct {
	Key string `json:"key"`
	card.Card
	ColorNames []string        `json:"color_names"`
	Groups     []tags.TagGroup `json:"groups"`
}

func newCardView(key string, c card.Card) cardView {
	groups := tags.Groups(c)
	if groups == nil {
		groups = []tags.TagGroup{}
	}
	names := colors.Names(c.Colors)
	if names == nil {
		names = []string{}
	}
	return cardView{Key: key, Card: c, ColorNames: names, Groups: groups}
}

type listMeta struct {
	Query   string   `json:"query"`
	Terms   []string `json:"terms"`
	Total   int      `json:"total"`
	Matched int      `json:"matched"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"}, nil)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loadedCatalog()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, map[string]any{"status": "ready", "cards": cat.Len()}, nil)
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loadedCatalog()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := cat.MarshalJSON()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loadedCatalog()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	indices := s.matcher.FilterIndices(cat.Cards, query)

	views := make([]cardView, 0, len(indices))
	for _, i := range indices {
		views = append(views, newCardView(cat.Keys[i], cat.Cards[i]))
	}

	ok(w, views, listMeta{
		Query:   query,
		Terms:   append([]string{}, search.Terms(query)...),
		Total:   cat.Len(),
		Matched: len(views),
	})
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loadedCatalog()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	key := chi.URLParam(r, "key")
	for i, k := range cat.Keys {
		if k == key {
			ok(w, newCardView(k, cat.Cards[i]), nil)
			return
		}
	}
	s.fail(w, r, notFound("Card"))
}

type colorView struct {
	Name    string   `json:"name"`
	Letter  string   `json:"letter"`
	Aliases []string `json:"aliases"`
}

func (s *Server) listColors(w http.ResponseWriter, r *http.Request) {
	all := colors.All()
	views := make([]colorView, len(all))
	for i, c := range all {
		views[i] = colorView{Name: c.Name, Letter: c.Code(), Aliases: c.Aliases}
	}
	ok(w, views, nil)
}

func (s *Server) listDiagnostics(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loadedCatalog()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	diags := cat.Diagnostics
	if diags == nil {
		diags = []catalog.Diagnostic{}
	}
	ok(w, diags, nil)
}

// requestLogger logs one line per request through zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			if q := r.URL.Query().Get("q"); q != "" {
				fields = append(fields, zap.String("query", strings.TrimSpace(q)))
			}
			logger.Info("request", fields...)
		})
	}
}
