package physexam

import (
	"sort"
	"strings"

	"github.com/goliatone/go-notegen/pkg/document"
)

// Apply maps every section with selected findings onto a target form element
// and returns the element-value updates keyed by elementKey.
//
// Target resolution per section, in order:
//  1. the element whose dataField equals the section's fixed dataField id;
//  2. a fuzzy match of the section's aliases against element labels
//     (case-insensitive exact, substring, then token membership, longer
//     aliases tried first to reduce false positives).
//
// Sections with no resolvable target are concatenated ("; "-joined) into the
// element identified by originKey, the field whose click opened the checklist,
// so no finding is ever discarded. With an empty originKey the joined
// remainder is still returned, keyed by the empty string, and placing it is
// the caller's problem.
func Apply(exam *Exam, elements []document.FormElement, originKey string) map[string]any {
	updates := make(map[string]any)
	if exam == nil {
		return updates
	}

	var unplaced []string
	for _, section := range exam.Sections {
		summary := Summarize(section)
		if summary == "" {
			continue
		}
		target := matchTarget(section, elements)
		if target == "" {
			unplaced = append(unplaced, summary)
			continue
		}
		appendValue(updates, target, summary)
	}

	if len(unplaced) > 0 {
		appendValue(updates, originKey, strings.Join(unplaced, "; "))
	}
	return updates
}

func appendValue(updates map[string]any, key, summary string) {
	if existing, ok := updates[key].(string); ok && existing != "" {
		updates[key] = existing + "; " + summary
		return
	}
	updates[key] = summary
}

func matchTarget(section Section, elements []document.FormElement) string {
	for _, el := range elements {
		if section.DataField != "" && el.DataField == section.DataField {
			return el.ElementKey
		}
	}

	aliases := append([]string(nil), section.Aliases...)
	sort.SliceStable(aliases, func(i, j int) bool {
		return len(aliases[i]) > len(aliases[j])
	})

	for _, alias := range aliases {
		needle := strings.ToLower(strings.TrimSpace(alias))
		if needle == "" {
			continue
		}
		for _, el := range elements {
			if el.ElementKey == "" || el.Label == "" {
				continue
			}
			label := strings.ToLower(el.Label)
			if label == needle || strings.Contains(label, needle) {
				return el.ElementKey
			}
			for _, token := range strings.Fields(label) {
				if token == needle {
					return el.ElementKey
				}
			}
		}
	}
	return ""
}
