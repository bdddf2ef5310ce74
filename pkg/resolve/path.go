package resolve

import (
	"strconv"
	"strings"
)

// LookupPath descends a JSON-decoded value along a dot-path such as
// "latestVitals.temperature". Numeric segments index into arrays. The second
// return is false when any segment is missing or the value at the end is nil,
// so callers can leave fields unset instead of writing empty strings.
func LookupPath(value any, path string) (any, bool) {
	if strings.TrimSpace(path) == "" {
		return nil, false
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}
			current = typed[index]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}
