// Package catalog loads the card catalog: a single JSON object whose values
// are card records, read from a local file or fetched over HTTP.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/validator"
)

// DefaultSource is where the catalog is looked up when nothing else is configured
const DefaultSource = "resources/card_tags_merged.json"

var (
	// ErrFetch is returned when the catalog cannot be read or fetched
	ErrFetch = errors.New("catalog unreachable")

	// ErrDecode is returned when the catalog is not a JSON object
	ErrDecode = errors.New("catalog malformed")
)

// Catalog is the loaded, validated card list
type Catalog struct {
	Source      string
	Cards       []card.Card
	Keys        []string // Keys[i] is the object key Cards[i] was read from
	Diagnostics []Diagnostic
}

// Diagnostic records a problem found in one record at load time
type Diagnostic struct {
	Key     string `json:"key"`
	Reason  string `json:"reason"`
	Skipped bool   `json:"skipped"` // true when the record was dropped
}

// Len returns the number of cards
func (c *Catalog) Len() int {
	return len(c.Cards)
}

// Skipped returns the diagnostics of dropped records
func (c *Catalog) Skipped() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Skipped {
			out = append(out, d)
		}
	}
	return out
}

// SkippedKeys returns the keys of dropped records, once each, in load order
func (c *Catalog) SkippedKeys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, d := range c.Diagnostics {
		if d.Skipped && !seen[d.Key] {
			seen[d.Key] = true
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// Find returns the first card whose name equals name, ignoring case
func (c *Catalog) Find(name string) (card.Card, bool) {
	for _, cd := range c.Cards {
		if strings.EqualFold(cd.Name, name) {
			return cd, true
		}
	}
	return card.Card{}, false
}

// ResolveImage turns a card's image_url into a location that can be opened:
// absolute URLs are kept, anything else is relative to the catalog source.
func (c *Catalog) ResolveImage(imageURL string) string {
	if imageURL == "" || IsRemote(imageURL) {
		return imageURL
	}
	if IsRemote(c.Source) {
		base, err := url.Parse(c.Source)
		if err != nil {
			return imageURL
		}
		ref, err := url.Parse(imageURL)
		if err != nil {
			return imageURL
		}
		return base.ResolveReference(ref).String()
	}
	if filepath.IsAbs(imageURL) {
		return imageURL
	}
	return filepath.Join(filepath.Dir(c.Source), filepath.FromSlash(strings.TrimPrefix(imageURL, "/")))
}

// WithResolvedImages returns a copy whose image URLs are all absolute, so the
// catalog can be stored away from its source
func (c *Catalog) WithResolvedImages() *Catalog {
	out := *c
	out.Cards = make([]card.Card, len(c.Cards))
	for i, cd := range c.Cards {
		cd.ImageURL = c.ResolveImage(cd.ImageURL)
		out.Cards[i] = cd
	}
	return &out
}

// MarshalJSON writes the catalog back as an object, keys in load order
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cd := range c.Cards {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Keys[i])
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(cd)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Loader reads catalogs
type Loader struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewLoader returns a loader with the given fetch timeout and logger
func NewLoader(timeout time.Duration, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
		Logger:  logger,
	}
}

// Load reads, decodes and validates the catalog at source.
//
// Records with validation errors are skipped and reported in Diagnostics,
// along with their warnings; records with only warnings are kept and reported
// too. An empty object is a valid empty catalog.
func (l *Loader) Load(ctx context.Context, source string) (*Catalog, error) {
	entries, err := l.ReadEntries(ctx, source)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		Source: source,
		Cards:  make([]card.Card, 0, len(entries)),
		Keys:   make([]string, 0, len(entries)),
	}

	for _, entry := range entries {
		c, results := validator.ValidateRecord(entry.Key, entry.Raw)
		skipped := !results.OK()
		for _, warning := range results.Warnings {
			cat.Diagnostics = append(cat.Diagnostics, Diagnostic{Key: entry.Key, Reason: warning, Skipped: skipped})
		}
		if skipped {
			for _, e := range results.Errors {
				cat.Diagnostics = append(cat.Diagnostics, Diagnostic{Key: entry.Key, Reason: e, Skipped: true})
				l.Logger.Warn("skipping catalog record", zap.String("key", entry.Key), zap.String("reason", e))
			}
			continue
		}
		cat.Cards = append(cat.Cards, c)
		cat.Keys = append(cat.Keys, entry.Key)
	}

	l.Logger.Info("catalog loaded",
		zap.String("source", source),
		zap.Int("cards", len(cat.Cards)),
		zap.Int("skipped", len(entries)-len(cat.Cards)),
	)

	return cat, nil
}

// ReadEntries reads the catalog object at source without validating records
func (l *Loader) ReadEntries(ctx context.Context, source string) ([]validator.Entry, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeEntries(data)
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		return l.fetch(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	l.Logger.Debug("fetching catalog", zap.String("url", source))
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, source, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

// Load reads a catalog with a default loader
func Load(ctx context.Context, source string) (*Catalog, error) {
	return NewLoader(30*time.Second, nil).Load(ctx, source)
}
