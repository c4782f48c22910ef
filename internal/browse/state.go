// Package browse is the interactive terminal gallery: a search field, the
// filtered card list, and a preview of the card under the mouse pointer.
//
// All gallery state lives in State and changes only through Reduce, which
// applies one Event and returns the next State. The bubbletea model feeds
// terminal input through Reduce and renders whatever it returns.
package browse

import (
	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/search"
)

// Point is a pointer position in terminal cells
type Point struct {
	X, Y int
}

// State is the gallery state. Treat it as a value; Reduce never mutates the
// State it is given.
type State struct {
	Load    catalog.State
	Query   string
	Visible []int // indices into the catalog cards that match Query, in catalog order
	Hovered int   // index into the catalog cards, -1 when no card is hovered
	Pointer Point

	matcher search.Matcher
}

// NewState returns the initial state: catalog loading, nothing hovered
func NewState(matcher search.Matcher) State {
	return State{
		Load:    catalog.LoadingState(),
		Hovered: -1,
		matcher: matcher,
	}
}

// Cards returns every loaded card
func (s State) Cards() []card.Card {
	if s.Load.Catalog == nil {
		return nil
	}
	return s.Load.Catalog.Cards
}

// Previewing reports whether a card is hovered
func (s State) Previewing() bool {
	return s.Hovered >= 0
}

// HoveredCard returns the hovered card, if any
func (s State) HoveredCard() (card.Card, bool) {
	cards := s.Cards()
	if s.Hovered < 0 || s.Hovered >= len(cards) {
		return card.Card{}, false
	}
	return cards[s.Hovered], true
}

func (s State) isVisible(idx int) bool {
	for _, v := range s.Visible {
		if v == idx {
			return true
		}
	}
	return false
}

// Event is an input to Reduce
type Event interface {
	event()
}

// PointerMoved is sent for every pointer movement anywhere in the gallery
type PointerMoved struct{ X, Y int }

// PointerEntered is sent when the pointer enters the card at Index
type PointerEntered struct{ Index int }

// PointerLeft is sent when the pointer leaves the card at Index
type PointerLeft struct{ Index int }

// QueryChanged carries the full new search text
type QueryChanged struct{ Query string }

// CatalogLoaded carries the result of a successful load
type CatalogLoaded struct{ Catalog *catalog.Catalog }

// CatalogFailed carries the reason a load failed
type CatalogFailed struct{ Err error }

func (PointerMoved) event()   {}
func (PointerEntered) event() {}
func (PointerLeft) event()    {}
func (QueryChanged) event()   {}
func (CatalogLoaded) event()  {}
func (CatalogFailed) event()  {}

// Reduce applies one event. Later events always win; there are no timers or
// queued transitions.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case PointerMoved:
		s.Pointer = Point{X: e.X, Y: e.Y}

	case PointerEntered:
		if s.isVisible(e.Index) {
			s.Hovered = e.Index
		}

	case PointerLeft:
		if s.Hovered == e.Index {
			s.Hovered = -1
		}

	case QueryChanged:
		s.Query = e.Query
		s.Visible = s.matcher.FilterIndices(s.Cards(), s.Query)
		if s.Hovered >= 0 && !s.isVisible(s.Hovered) {
			s.Hovered = -1
		}

	case CatalogLoaded:
		s.Load = catalog.Result(e.Catalog, nil)
		s.Visible = s.matcher.FilterIndices(s.Cards(), s.Query)
		s.Hovered = -1

	case CatalogFailed:
		s.Load = catalog.Result(nil, e.Err)
		s.Visible = nil
		s.Hovered = -1
	}

	return s
}
