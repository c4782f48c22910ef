// Package colors holds the fixed color identity table used when searching
// cards by color name or letter.
package colors

import (
	"strings"

	"github.com/arcanaland/cardtags/internal/card"
)

// Color is one canonical color identity bucket
type Color struct {
	Name    string   `json:"name"`    // Canonical name, e.g. "blue"
	Letter  byte     `json:"-"`       // Code stored in card colors, e.g. 'U'
	Aliases []string `json:"aliases"` // Accepted lowercase search terms
}

// Code returns the letter as a string
func (c Color) Code() string {
	return string(c.Letter)
}

var table = []Color{
	{Name: "white", Letter: 'W', Aliases: []string{"w", "white"}},
	{Name: "blue", Letter: 'U', Aliases: []string{"u", "blue"}},
	{Name: "black", Letter: 'B', Aliases: []string{"b", "black"}},
	{Name: "red", Letter: 'R', Aliases: []string{"r", "red"}},
	{Name: "green", Letter: 'G', Aliases: []string{"g", "green"}},
	{Name: "colorless", Letter: 'C', Aliases: []string{"c", "colorless"}},
}

// All returns a copy of the table in canonical order
func All() []Color {
	out := make([]Color, len(table))
	for i, c := range table {
		out[i] = c
		out[i].Aliases = append([]string(nil), c.Aliases...)
	}
	return out
}

// Lookup finds the color a search term names, ignoring case
func Lookup(term string) (Color, bool) {
	if term == "" {
		return Color{}, false
	}
	lower := strings.ToLower(term)
	for _, c := range table {
		for _, alias := range c.Aliases {
			if alias == lower {
				return c, true
			}
		}
	}
	return Color{}, false
}

// Matches reports whether term names a color whose letter appears in colors
func Matches(colors card.Colors, term string) bool {
	if colors == "" || term == "" {
		return false
	}
	c, ok := Lookup(term)
	if !ok {
		return false
	}
	return strings.IndexByte(string(colors), c.Letter) >= 0
}

// Names lists the canonical names of the letters present in colors, in table order
func Names(colors card.Colors) []string {
	var names []string
	for _, c := range table {
		if strings.IndexByte(string(colors), c.Letter) >= 0 {
			names = append(names, c.Name)
		}
	}
	return names
}

// IsKnownLetter reports whether r is one of the six color codes
func IsKnownLetter(r rune) bool {
	for _, c := range table {
		if rune(c.Letter) == r {
			return true
		}
	}
	return false
}
