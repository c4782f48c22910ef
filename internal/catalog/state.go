package catalog

import "fmt"

// Status is the stage of the one-shot catalog load
type Status int

const (
	Loading Status = iota
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State tells a failed load apart from a catalog that is legitimately empty
type State struct {
	Status  Status
	Catalog *Catalog
	Err     error
}

// LoadingState is the state before the load completes
func LoadingState() State {
	return State{Status: Loading}
}

// Result builds the state for the outcome of a load
func Result(cat *Catalog, err error) State {
	if err != nil {
		return State{Status: Failed, Err: err}
	}
	return State{Status: Loaded, Catalog: cat}
}

// Empty reports whether the catalog loaded with no cards
func (s State) Empty() bool {
	return s.Status == Loaded && (s.Catalog == nil || s.Catalog.Len() == 0)
}

// Message is a one-line description for display, empty when cards are available
func (s State) Message() string {
	switch {
	case s.Status == Loading:
		return "Loading catalog..."
	case s.Status == Failed:
		return fmt.Sprintf("Failed to load catalog: %v", s.Err)
	case s.Empty():
		return "The catalog is empty."
	}
	return ""
}
