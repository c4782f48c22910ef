package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcanaland/cardtags/internal/card"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		colors card.Colors
		term   string
		want   bool
	}{
		{"name_present", "WU", "blue", true},
		{"name_absent", "WU", "black", false},
		{"empty_colors", "", "white", false},
		{"empty_term", "W", "", false},
		{"letter_alias", "WU", "u", true},
		{"uppercase_term", "R", "RED", true},
		{"mixed_case_letter", "G", "G", true},
		{"colorless", "C", "colorless", true},
		{"not_an_alias", "WUBRG", "purple", false},
		{"partial_name", "W", "whi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.colors, tt.term))
		})
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("Black")
	assert.True(t, ok)
	assert.Equal(t, "black", c.Name)
	assert.Equal(t, "B", c.Code())

	_, ok = Lookup("")
	assert.False(t, ok)

	_, ok = Lookup("blu")
	assert.False(t, ok)
}

func TestAllIsACopy(t *testing.T) {
	first := All()
	first[0].Aliases[0] = "mutated"

	second := All()
	assert.Equal(t, "w", second[0].Aliases[0])
	assert.Len(t, second, 6)
	assert.Equal(t, []string{"white", "blue", "black", "red", "green", "colorless"},
		[]string{second[0].Name, second[1].Name, second[2].Name, second[3].Name, second[4].Name, second[5].Name})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"white", "blue"}, Names("UW"))
	assert.Nil(t, Names(""))
	assert.Equal(t, []string{"colorless"}, Names("C"))
}

func TestIsKnownLetter(t *testing.T) {
	for _, r := range "WUBRGC" {
		assert.True(t, IsKnownLetter(r), string(r))
	}
	assert.False(t, IsKnownLetter('X'))
	assert.False(t, IsKnownLetter('w'))
}
