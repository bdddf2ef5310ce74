// Package notegen re-exports the core types and wires the built-in renderers
// so most callers need only this import.
package notegen

import (
	"context"
	"fmt"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/render"
	"github.com/goliatone/go-notegen/pkg/renderers/editor"
	"github.com/goliatone/go-notegen/pkg/renderers/inline"
	"github.com/goliatone/go-notegen/pkg/renderers/printhtml"
	"github.com/goliatone/go-notegen/pkg/template"
)

// Template aliases the template record; exported via the root package for
// convenience.
type Template = template.Template

// ConsultationNote is one filled-out template instance.
type ConsultationNote = template.ConsultationNote

// FormElement is the typed form control embedded in a content tree.
type FormElement = document.FormElement

// RenderOptions carries per-request render data: title, values, groups and
// theme selection.
type RenderOptions = render.RenderOptions

// Output modes accepted by RenderHTML and the HTTP render endpoints.
const (
	ModeEdit           = "edit"
	ModeReadOnlyInline = "readOnlyInline"
	ModeStaticHTML     = "staticHtml"
)

// RendererName maps a public output mode to its registry entry.
func RendererName(mode string) (string, error) {
	switch mode {
	case ModeEdit:
		return "editor", nil
	case ModeReadOnlyInline:
		return "inline", nil
	case ModeStaticHTML:
		return "printhtml", nil
	}
	return "", fmt.Errorf("notegen: unknown render mode %q", mode)
}

// DefaultRenderers builds a registry with the three built-in output targets
// registered.
func DefaultRenderers() (*render.Registry, error) {
	reg := render.NewRegistry()
	if err := reg.Register(editor.New()); err != nil {
		return nil, err
	}
	if err := reg.Register(inline.New()); err != nil {
		return nil, err
	}
	static, err := printhtml.New()
	if err != nil {
		return nil, err
	}
	if err := reg.Register(static); err != nil {
		return nil, err
	}
	return reg, nil
}

// RenderHTML renders a content tree in the named mode. It is the simplest
// entry point for callers that just want bytes out.
func RenderHTML(ctx context.Context, doc *document.Node, mode string, options RenderOptions) ([]byte, error) {
	name, err := RendererName(mode)
	if err != nil {
		return nil, err
	}
	reg, err := DefaultRenderers()
	if err != nil {
		return nil, err
	}
	renderer, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, doc, options)
}
