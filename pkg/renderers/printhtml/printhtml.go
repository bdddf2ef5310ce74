// Package printhtml renders a finished note as a standalone HTML page suited
// for printing or PDF conversion. Every form element is flattened to static
// text: bold values, checkbox glyphs, formatted dates and replayed signature
// strokes. The page chrome comes from an embedded template and an optional
// theme selection.
package printhtml

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/render"
	rendertemplate "github.com/goliatone/go-notegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-notegen/pkg/render/template/gotemplate"
)

const templateName = "templates/page.tmpl"

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	themes           theme.ThemeSelector
}

// WithTemplatesFS supplies an alternate page template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads the page template from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves theme tokens into page CSS variables.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.themes = selector
	}
}

// Renderer produces the static print page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	themes    theme.ThemeSelector
}

// New constructs the renderer, defaulting to the embedded page template.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{templateFS: templatesFS}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("printhtml: init template engine: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{templates: templateRenderer, themes: cfg.themes}, nil
}

func (r *Renderer) Name() string { return "printhtml" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render walks the tree through the shared structural walker and wraps the
// result in the page template.
func (r *Renderer) Render(_ context.Context, doc *document.Node, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("printhtml: template renderer is nil")
	}

	body, err := render.HTML(doc, options.Values, elementVisitor{})
	if err != nil {
		return nil, fmt.Errorf("printhtml: %w", err)
	}

	cssVars, err := r.cssVars(options.Theme, options.Variant)
	if err != nil {
		return nil, err
	}

	title := options.Title
	if title == "" {
		title = "Consultation Note"
	}

	rendered, err := r.templates.RenderTemplate(templateName, map[string]any{
		"title":    title,
		"body":     body,
		"css_vars": cssVars,
	})
	if err != nil {
		return nil, fmt.Errorf("printhtml: render page template: %w", err)
	}
	return []byte(rendered), nil
}

// cssVars resolves the selected theme's tokens into a CSS declaration block.
// No selector or no theme name means an empty block.
func (r *Renderer) cssVars(name, variant string) (string, error) {
	if r.themes == nil || name == "" {
		return "{}", nil
	}
	selection, err := r.themes.Select(name, variant)
	if err != nil {
		return "", fmt.Errorf("printhtml: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil || len(selection.Manifest.Tokens) == 0 {
		return "{}", nil
	}

	keys := make([]string, 0, len(selection.Manifest.Tokens))
	for key := range selection.Manifest.Tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for _, key := range keys {
		b.WriteString(" --" + key + ": " + selection.Manifest.Tokens[key] + ";")
	}
	b.WriteString(" }")
	return b.String(), nil
}

type elementVisitor struct{}

func (elementVisitor) ElementHTML(el document.FormElement, value any) (string, error) {
	return `<span class="ng-static-value">` + staticValue(el, value) + `</span>`, nil
}

func staticValue(el document.FormElement, value any) string {
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
