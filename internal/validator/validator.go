package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/colors"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were collected
func (r ValidationResults) OK() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResults) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResults) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResults) merge(other ValidationResults) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Entry is one key/value pair of the catalog object, in document order
type Entry struct {
	Key string
	Raw json.RawMessage
}

type Validator struct {
	Entries []Entry
	Results ValidationResults
}

func NewValidator(entries []Entry) *Validator {
	return &Validator{
		Entries: entries,
		Results: ValidationResults{},
	}
}

// Validate runs every catalog check and returns the collected results
func (v *Validator) Validate() ValidationResults {
	v.validateNotEmpty()
	v.validateRecords()
	v.validateDuplicateNames()

	return v.Results
}

func (v *Validator) validateNotEmpty() {
	if len(v.Entries) == 0 {
		v.Results.warnf("catalog contains no records")
	}
}

func (v *Validator) validateRecords() {
	for _, entry := range v.Entries {
		_, results := ValidateRecord(entry.Key, entry.Raw)
		v.Results.merge(results)
	}
}

// validateDuplicateNames warns about names shared by several records; names
// are not identifiers, so this is never an error
func (v *Validator) validateDuplicateNames() {
	seen := make(map[string]string)
	for _, entry := range v.Entries {
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(entry.Raw, &named); err != nil || named.Name == "" {
			continue
		}
		if first, ok := seen[named.Name]; ok {
			v.Results.warnf("record %q: name %q already used by record %q", entry.Key, named.Name, first)
			continue
		}
		seen[named.Name] = entry.Key
	}
}

// ValidateRecord decodes one catalog value and checks it.
//
// Errors mean the record cannot be shown and must be skipped: it is not an
// object, a field has the wrong type, or the name is missing. Warnings flag
// records that still render, such as a missing image.
func ValidateRecord(key string, raw json.RawMessage) (card.Card, ValidationResults) {
	var results ValidationResults
	var c card.Card

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		results.errorf("record %q: expected an object", key)
		return c, results
	}

	if err := json.Unmarshal(trimmed, &c); err != nil {
		results.errorf("record %q: %v", key, err)
		return c, results
	}

	if strings.TrimSpace(c.Name) == "" {
		results.errorf("record %q: name is required", key)
	}

	if strings.TrimSpace(c.ImageURL) == "" {
		results.warnf("record %q: image_url is missing", key)
	}

	var unknown []string
	for _, r := range string(c.Colors) {
		if !colors.IsKnownLetter(r) {
			unknown = append(unknown, string(r))
		}
	}
	if len(unknown) > 0 {
		results.warnf("record %q: unknown color letters: %s", key, strings.Join(unknown, ", "))
	}

	tagFields := []struct {
		name string
		list []string
	}{
		{"tags", c.Tags},
		{"auto_tags", c.AutoTags},
		{"text_tags", c.TextTags},
	}
	for _, field := range tagFields {
		for _, tag := range field.list {
			if strings.TrimSpace(tag) == "" {
				results.warnf("record %q: %s contains an empty tag", key, field.name)
				break
			}
		}
	}

	return c, results
}
