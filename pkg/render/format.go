package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueString renders an element value as display text. Numbers drop
// insignificant trailing zeros; nil renders empty so unfilled fields never
// show a literal placeholder.
func ValueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Truthy reports whether a checkbox value counts as checked. Stored values
// arrive as bool or as the strings a form control submits.
func Truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true", "yes", "on", "1", "checked":
			return true
		}
		return false
	case float64:
		return v != 0
	default:
		return false
	}
}

// datetime layouts accepted from stored values, tried in order.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04",
}

// FormatDatetime renders a stored datetime value for display:
// "DD-MM-YYYY h:mmam/pm" (12-hour, lowercase am/pm, minutes zero-padded), or
// "h:mmam/pm" alone when timeOnly is set. Date-only inputs render the date
// alone; unparseable input is returned verbatim rather than dropped.
func FormatDatetime(raw string, timeOnly bool) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	for _, layout := range datetimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		switch layout {
		case "2006-01-02":
			if timeOnly {
				return parsed.Format("3:04pm")
			}
			return parsed.Format("02-01-2006")
		case "15:04":
			return parsed.Format("3:04pm")
		}
		if timeOnly {
			return parsed.Format("3:04pm")
		}
		return parsed.Format("02-01-2006 3:04pm")
	}
	return value
}

// Checkbox glyphs used by static output instead of live inputs.
const (
	GlyphChecked   = "☑"
	GlyphUnchecked = "☐"
)

// CheckboxGlyph returns the static glyph for a checkbox value.
func CheckboxGlyph(value any) string {
	if Truthy(value) {
		return GlyphChecked
	}
	return GlyphUnchecked
}

// SignaturePaths extracts the ordered SVG path-data strings a signature value
// stores. Values decoded from JSON arrive as []any.
func SignaturePaths(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		paths := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				paths = append(paths, s)
			}
		}
		return paths
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
