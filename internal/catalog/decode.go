package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/arcanaland/cardtags/internal/validator"
)

// DecodeEntries splits a catalog object into its key/value pairs, keeping
// document order. A key that appears twice keeps its first position and its
// last value.
func DecodeEntries(data []byte) ([]validator.Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrDecode)
	}

	var entries []validator.Entry
	positions := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrDecode, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrDecode, key, err)
		}

		if i, dup := positions[key]; dup {
			entries[i].Raw = raw
			continue
		}
		positions[key] = len(entries)
		entries = append(entries, validator.Entry{Key: key, Raw: raw})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after catalog object", ErrDecode)
	}

	return entries, nil
}
