package render

import (
	"github.com/goliatone/go-notegen/pkg/document"
)

// RenderOptions carries per-request data renderers consume without mutating
// the content tree.
type RenderOptions struct {
	// Title is the document title used by page-producing renderers.
	Title string
	// Values holds the current element values keyed by elementKey.
	Values map[string]any
	// Groups is the template's group list, passed explicitly so renderers
	// never read ambient state.
	Groups []document.Group
	// Theme and Variant select the visual theme for page-producing renderers.
	Theme   string
	Variant string
}
