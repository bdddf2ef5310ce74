package render

import (
	"html"
	"strings"
)

// SignatureSVG replays stored signature strokes as inline SVG: one <path> per
// stored path-data string, in their recorded order. Returns "" when the value
// holds no strokes.
func SignatureSVG(value any) string {
	paths := SignaturePaths(value)
	if len(paths) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 150" class="ng-signature">`)
	for _, path := range paths {
		b.WriteString(`<path d="`)
		b.WriteString(html.EscapeString(path))
		b.WriteString(`" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round"/>`)
	}
	b.WriteString(`</svg>`)
	return b.String()
}
