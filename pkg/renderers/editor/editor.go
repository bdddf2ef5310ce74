// Package editor renders the content tree as the interactive builder surface:
// live, bound form controls carrying data-element-key attributes. Host
// adapters wire each control's change event straight through to
// OnDataChange(key, value); controls hold no state beyond the active
// keystroke, and the last write for a key wins.
package editor

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/render"
)

// Renderer emits the editable HTML surface.
type Renderer struct{}

// New constructs the editor renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return "editor" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *Renderer) Render(_ context.Context, doc *document.Node, options render.RenderOptions) ([]byte, error) {
	body, err := render.HTML(doc, options.Values, elementVisitor{})
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	return []byte(`<div class="ng-editor">` + body + `</div>`), nil
}

type elementVisitor struct{}

func (elementVisitor) ElementHTML(el document.FormElement, value any) (string, error) {
	var b strings.Builder
	b.Grow(256)

	b.WriteString(`<div class="ng-field" data-element-key="`)
	b.WriteString(html.EscapeString(el.ElementKey))
	b.WriteString(`">`)
	if el.Label != "" {
		b.WriteString(`<label for="` + controlID(el.ElementKey) + `">`)
		b.WriteString(html.EscapeString(el.Label))
		if el.Required {
			b.WriteString(`<span class="ng-required">*</span>`)
		}
		b.WriteString(`</label>`)
	}
	writeControl(&b, el, value)
	if el.HelpText != "" {
		b.WriteString(`<p class="ng-help">` + html.EscapeString(el.HelpText) + `</p>`)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

func writeControl(b *strings.Builder, el document.FormElement, value any) {
	switch el.ElementType {
	case document.ElementTextarea, document.ElementVoiceToText:
		b.WriteString(`<textarea` + commonAttrs(el))
		if el.ElementType == document.ElementVoiceToText {
			b.WriteString(` data-voice-to-text="true"`)
		}
		writeLengthAttrs(b, el)
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(render.ValueString(value)))
		b.WriteString(`</textarea>`)
	case document.ElementCheckbox:
		b.WriteString(`<input type="checkbox"` + commonAttrs(el))
		if render.Truthy(value) {
			b.WriteString(` checked`)
		}
		b.WriteString(`/>`)
	case document.ElementSelect:
		b.WriteString(`<select` + commonAttrs(el) + `>`)
		b.WriteString(`<option value=""></option>`)
		current := render.ValueString(value)
		for _, opt := range el.Options {
			b.WriteString(`<option value="` + html.EscapeString(opt.Value) + `"`)
			if opt.Value != "" && opt.Value == current {
				b.WriteString(` selected`)
			}
			b.WriteString(`>` + html.EscapeString(opt.Label) + `</option>`)
		}
		b.WriteString(`</select>`)
	case document.ElementDatetime:
		inputType := "datetime-local"
		if el.ShowTimeOnly {
			inputType = "time"
		}
		b.WriteString(`<input type="` + inputType + `"` + commonAttrs(el) + valueAttr(value) + `/>`)
	case document.ElementNumeric:
		b.WriteString(`<input type="number"` + commonAttrs(el))
		if el.Min != nil {
			b.WriteString(` min="` + formatFloat(*el.Min) + `"`)
		}
		if el.Max != nil {
			b.WriteString(` max="` + formatFloat(*el.Max) + `"`)
		}
		if el.Step != nil {
			b.WriteString(` step="` + formatFloat(*el.Step) + `"`)
		}
		b.WriteString(valueAttr(value) + `/>`)
	case document.ElementSignature:
		b.WriteString(`<canvas class="ng-signature-pad"` + commonAttrs(el) + `></canvas>`)
	default: // input
		b.WriteString(`<input type="text"` + commonAttrs(el))
		writeLengthAttrs(b, el)
		if el.Pattern != "" {
			b.WriteString(` pattern="` + html.EscapeString(el.Pattern) + `"`)
		}
		b.WriteString(valueAttr(value) + `/>`)
	}
}

func commonAttrs(el document.FormElement) string {
	var b strings.Builder
	b.WriteString(` id="` + controlID(el.ElementKey) + `" name="` + html.EscapeString(el.ElementKey) + `"`)
	b.WriteString(` data-element-key="` + html.EscapeString(el.ElementKey) + `"`)
	if el.Placeholder != "" {
		b.WriteString(` placeholder="` + html.EscapeString(el.Placeholder) + `"`)
	}
	if el.Required {
		b.WriteString(` required`)
	}
	return b.String()
}

func writeLengthAttrs(b *strings.Builder, el document.FormElement) {
	if el.MinLength != nil {
		b.WriteString(` minlength="` + strconv.Itoa(*el.MinLength) + `"`)
	}
	if el.MaxLength != nil {
		b.WriteString(` maxlength="` + strconv.Itoa(*el.MaxLength) + `"`)
	}
}

func valueAttr(value any) string {
	text := render.ValueString(value)
	if text == "" {
		return ""
	}
	return ` value="` + html.EscapeString(text) + `"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func controlID(key string) string {
	return "ng-" + html.EscapeString(key)
}
