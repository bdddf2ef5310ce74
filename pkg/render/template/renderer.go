// Package template declares the template-engine seam page-producing
// renderers rely on, mirroring the github.com/goliatone/go-template engine
// contract so implementations stay swappable.
package template

import (
	"io"
)

// TemplateRenderer renders named or literal templates with the given data.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
