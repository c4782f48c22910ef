package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Card represents one catalog entry with artwork and classification tags
type Card struct {
	Name     string   `json:"name"`                // Display name, not guaranteed unique
	ImageURL string   `json:"image_url"`           // Artwork location (URL or catalog-relative path)
	Caption  string   `json:"caption,omitempty"`   // Free-form description
	Colors   Colors   `json:"colors"`              // Color identity letters, e.g. "WU"
	Tags     []string `json:"tags,omitempty"`      // Vision model labels
	AutoTags []string `json:"auto_tags,omitempty"` // Caption/NLP labels
	TextTags []string `json:"text_tags,omitempty"` // Labels from type line and flavor text
}

// Colors is a concatenation of single uppercase color letters (W, U, B, R, G, C).
//
// It decodes from either a string ("WU") or an array of letters (["W", "U"]).
type Colors string

// UnmarshalJSON accepts a string, an array of strings or null
func (c *Colors) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = ""
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var letters []string
		if err := json.Unmarshal(data, &letters); err != nil {
			return fmt.Errorf("colors: %w", err)
		}
		*c = Colors(strings.Join(letters, ""))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	*c = Colors(s)
	return nil
}

// HasTags reports whether any of the three tag sources carries a label
func (c Card) HasTags() bool {
	return len(c.Tags) > 0 || len(c.AutoTags) > 0 || len(c.TextTags) > 0
}
