// Package render defines the renderer contract shared by every output target
// and the tree-walking core that keeps per-node-kind HTML identical across
// targets. Only the formElement leaf differs between modes; each renderer
// supplies that piece through an ElementVisitor.
package render

import (
	"context"

	"github.com/goliatone/go-notegen/pkg/document"
)

// Renderer converts a content tree plus current element values into a byte
// representation for one output target.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc *document.Node, options RenderOptions) ([]byte, error)
}
