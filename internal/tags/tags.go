// Package tags groups a card's three tag sources into titled, sorted chips.
package tags

import (
	"sort"
	"strconv"

	"github.com/arcanaland/cardtags/internal/card"
)

// Source identifies where a set of tags came from
type Source int

const (
	Vision Source = iota
	Caption
	Text
)

// Sources lists every tag source in display order
var Sources = []Source{Vision, Caption, Text}

// Style is the chip colouring for a source, as hex RGB
type Style struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// Title is the label shown above a group and used as each chip's hint
func (s Source) Title() string {
	switch s {
	case Vision:
		return "Vision Model"
	case Caption:
		return "Caption/NLP"
	case Text:
		return "Textanalyse (type_line, flavor_text)"
	}
	return "Tags"
}

// Style returns the chip colours for the source
func (s Source) Style() Style {
	switch s {
	case Vision:
		return Style{Background: "#1e40af", Foreground: "#dbeafe"}
	case Caption:
		return Style{Background: "#166534", Foreground: "#dcfce7"}
	case Text:
		return Style{Background: "#6b21a8", Foreground: "#f3e8ff"}
	}
	return Style{Background: "#374151", Foreground: "#f3f4f6"}
}

// Of returns the card's tags for the source
func (s Source) Of(c card.Card) []string {
	switch s {
	case Vision:
		return c.Tags
	case Caption:
		return c.AutoTags
	case Text:
		return c.TextTags
	}
	return nil
}

// Chip is one rendered tag
type Chip struct {
	Key   string `json:"key"`   // Unique within the card
	Label string `json:"label"` // Tag text
	Hint  string `json:"hint"`  // Group title, for accessibility
}

// TagGroup is a titled set of chips from one source
type TagGroup struct {
	Source Source `json:"-"`
	Title  string `json:"title"`
	Style  Style  `json:"style"`
	Chips  []Chip `json:"chips"`
}

// Labels returns the chip labels in display order
func (g TagGroup) Labels() []string {
	out := make([]string, len(g.Chips))
	for i, chip := range g.Chips {
		out[i] = chip.Label
	}
	return out
}

// Group builds the chip group for one source. It reports false when there
// are no tags, so that no empty group is shown.
//
// Tags are sorted ascending by byte order; duplicates each get their own chip.
func Group(source Source, list []string) (TagGroup, bool) {
	if len(list) == 0 {
		return TagGroup{}, false
	}

	sorted := append([]string(nil), list...)
	sort.Strings(sorted)

	title := source.Title()
	chips := make([]Chip, len(sorted))
	for i, tag := range sorted {
		chips[i] = Chip{
			Key:   title + strconv.Itoa(i),
			Label: tag,
			Hint:  title,
		}
	}

	return TagGroup{
		Source: source,
		Title:  title,
		Style:  source.Style(),
		Chips:  chips,
	}, true
}

// Groups returns the non-empty groups of a card in display order
func Groups(c card.Card) []TagGroup {
	var groups []TagGroup
	for _, source := range Sources {
		if g, ok := Group(source, source.Of(c)); ok {
			groups = append(groups, g)
		}
	}
	return groups
}
