// Package search implements the card query predicate.
//
// A query is split into whitespace-separated terms. A card is kept when every
// term matches it; a term matches when it is a substring of the card name, a
// substring of any tag, or an alias of one of the card's colors.
package search

import (
	"strings"

	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/colors"
)

// Matcher evaluates queries against cards
type Matcher struct {
	// FoldTagCase lowercases stored tag values before comparing. When false,
	// tags are compared as stored against the lowercased term, so a tag like
	// "Flying" is not found by any query.
	FoldTagCase bool
}

// Default is the matcher that compares tag values as stored
var Default = Matcher{}

// Terms lowercases query and splits it into non-empty whitespace-separated terms
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// MatchesTerm reports whether a lowercased, non-empty term matches the card
func (m Matcher) MatchesTerm(c card.Card, term string) bool {
	if strings.Contains(strings.ToLower(c.Name), term) {
		return true
	}
	if m.anyTagContains(c.Tags, term) ||
		m.anyTagContains(c.AutoTags, term) ||
		m.anyTagContains(c.TextTags, term) {
		return true
	}
	return colors.Matches(c.Colors, term)
}

// Matches reports whether the card satisfies every term
func (m Matcher) Matches(c card.Card, terms []string) bool {
	for _, term := range terms {
		if !m.MatchesTerm(c, term) {
			return false
		}
	}
	return true
}

// Filter returns the cards matching query, in input order.
//
// An empty or whitespace-only query keeps every card. The input is never modified.
func (m Matcher) Filter(cards []card.Card, query string) []card.Card {
	terms := Terms(query)
	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if m.Matches(c, terms) {
			out = append(out, c)
		}
	}
	return out
}

// FilterIndices is Filter returning positions into cards instead of copies
func (m Matcher) FilterIndices(cards []card.Card, query string) []int {
	terms := Terms(query)
	out := make([]int, 0, len(cards))
	for i, c := range cards {
		if m.Matches(c, terms) {
			out = append(out, i)
		}
	}
	return out
}

func (m Matcher) anyTagContains(tags []string, term string) bool {
	for _, tag := range tags {
		if m.FoldTagCase {
			tag = strings.ToLower(tag)
		}
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}

// MatchesTerm checks a term with the Default matcher
func MatchesTerm(c card.Card, term string) bool {
	return Default.MatchesTerm(c, term)
}

// Filter filters with the Default matcher
func Filter(cards []card.Card, query string) []card.Card {
	return Default.Filter(cards, query)
}
