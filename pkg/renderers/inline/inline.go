// Package inline renders the content tree read-only: the shared structural
// markup with every form element reduced to an inert badge showing its label
// and current value. No handlers, no inputs.
package inline

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/render"
)

// Renderer emits the read-only inline view.
type Renderer struct{}

// New constructs the inline renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return "inline" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *Renderer) Render(_ context.Context, doc *document.Node, options render.RenderOptions) ([]byte, error) {
	body, err := render.HTML(doc, options.Values, elementVisitor{})
	if err != nil {
		return nil, fmt.Errorf("inline: %w", err)
	}
	return []byte(`<div class="ng-readonly">` + body + `</div>`), nil
}

type elementVisitor struct{}

func (elementVisitor) ElementHTML(el document.FormElement, value any) (string, error) {
	var b strings.Builder
	b.WriteString(`<span class="ng-badge" data-element-key="` + html.EscapeString(el.ElementKey) + `">`)
	if el.Label != "" {
		b.WriteString(`<span class="ng-badge-label">` + html.EscapeString(el.Label) + `:</span> `)
	}
	b.WriteString(`<span class="ng-badge-value">` + badgeValue(el, value) + `</span>`)
	b.WriteString(`</span>`)
	return b.String(), nil
}

func badgeValue(el document.FormElement, value any) string {
	switch el.ElementType {
	case document.ElementCheckbox:
		return render.CheckboxGlyph(value)
	case document.ElementDatetime:
		return html.EscapeString(render.FormatDatetime(render.ValueString(value), el.ShowTimeOnly))
	case document.ElementSignature:
		return render.SignatureSVG(value)
	default:
		return html.EscapeString(render.ValueString(value))
	}
}
