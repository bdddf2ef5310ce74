package template

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-notegen/pkg/version"
)

// Decode parses a stored template record, filling legacy defaults first so
// records written before the current schema load cleanly. Fields already
// present are never altered.
func Decode(raw []byte) (Template, error) {
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Template{}, fmt.Errorf("template: decode record: %w", err)
	}
	normalized, err := version.NormalizeLegacy(loose)
	if err != nil {
		return Template{}, err
	}
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return Template{}, fmt.Errorf("template: re-encode record: %w", err)
	}
	var record Template
	if err := json.Unmarshal(encoded, &record); err != nil {
		return Template{}, fmt.Errorf("template: decode normalized record: %w", err)
	}
	return record, nil
}
