package version

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// NormalizeLegacy fills safe defaults for fields that older stored template
// shapes lack, without touching anything already present. The result is
// stable: normalizing twice yields the same value as normalizing once.
func NormalizeLegacy(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	normalized, err := deepCopy(raw)
	if err != nil {
		return nil, fmt.Errorf("version: copy legacy record: %w", err)
	}

	if _, ok := normalized["status"]; !ok {
		normalized["status"] = "active"
	}
	if _, ok := normalized["groups"]; !ok {
		normalized["groups"] = []any{}
	}

	if content, ok := normalized["templateContent"].(map[string]any); ok {
		counter := 0
		normalizeNode(content, &counter)
	}
	return normalized, nil
}

// normalizeNode walks the raw tree in pre-order, assigning placeholder
// identity to form elements that predate the keyed schema. Placeholders
// derive from the pre-order element index so a second pass sees them as
// present fields and leaves them alone.
func normalizeNode(node map[string]any, counter *int) {
	if kind, _ := node["type"].(string); kind == "formElement" {
		*counter++
		attrs, ok := node["attrs"].(map[string]any)
		if !ok {
			attrs = map[string]any{}
			node["attrs"] = attrs
		}
		key, _ := attrs["elementKey"].(string)
		if key == "" {
			key = fmt.Sprintf("element_%d", *counter)
			attrs["elementKey"] = key
		}
		if label, _ := attrs["label"].(string); label == "" {
			attrs["label"] = labelFromKey(key)
		}
		if elementType, _ := attrs["elementType"].(string); elementType == "" {
			attrs["elementType"] = "input"
		}
		if _, ok := attrs["group_id"]; !ok {
			attrs["group_id"] = nil
		}
		if _, ok := attrs["data_binding"]; !ok {
			attrs["data_binding"] = nil
		}
	}

	children, _ := node["content"].([]any)
	for _, child := range children {
		if childNode, ok := child.(map[string]any); ok {
			normalizeNode(childNode, counter)
		}
	}
}

func labelFromKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(words) == 0 {
		return key
	}
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = strings.ToUpper(string(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

func deepCopy(in map[string]any) (map[string]any, error) {
	encoded, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}
