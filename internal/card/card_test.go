package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorsUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Colors
	}{
		{"string", `{"colors":"WU"}`, "WU"},
		{"array", `{"colors":["B","G"]}`, "BG"},
		{"null", `{"colors":null}`, ""},
		{"absent", `{}`, ""},
		{"empty_array", `{"colors":[]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Card
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))
			assert.Equal(t, tt.want, c.Colors)
		})
	}
}

func TestColorsUnmarshalRejectsNumbers(t *testing.T) {
	var c Card
	err := json.Unmarshal([]byte(`{"colors":7}`), &c)
	assert.Error(t, err)
}

func TestCardDecodesAllFields(t *testing.T) {
	raw := `{
		"name": "Griffin Sentinel",
		"image_url": "https://example.test/griffin.jpg",
		"caption": "a griffin on a cliff",
		"colors": "W",
		"tags": ["flier"],
		"auto_tags": ["griffin", "cliff"],
		"text_tags": ["creature"]
	}`

	var c Card
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "Griffin Sentinel", c.Name)
	assert.Equal(t, "https://example.test/griffin.jpg", c.ImageURL)
	assert.Equal(t, "a griffin on a cliff", c.Caption)
	assert.Equal(t, Colors("W"), c.Colors)
	assert.Equal(t, []string{"flier"}, c.Tags)
	assert.Equal(t, []string{"griffin", "cliff"}, c.AutoTags)
	assert.Equal(t, []string{"creature"}, c.TextTags)
	assert.True(t, c.HasTags())
}

func TestHasTags(t *testing.T) {
	assert.False(t, Card{Name: "Plain"}.HasTags())
	assert.False(t, Card{Name: "Plain", Tags: []string{}}.HasTags())
	assert.True(t, Card{TextTags: []string{"land"}}.HasTags())
}
