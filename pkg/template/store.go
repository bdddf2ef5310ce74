package template

import (
	"context"
	"errors"
)

// ErrNotFound reports a missing record from either store.
var ErrNotFound = errors.New("template: not found")

// TemplateStore persists templates. Save returns the authoritative record
// with ids and timestamps assigned; the caller computes version entries
// before saving.
type TemplateStore interface {
	Save(ctx context.Context, record Template) (Template, error)
	View(ctx context.Context, id string) (Template, error)
	List(ctx context.Context) ([]Summary, error)
	ListActive(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}

// NoteStore persists consultation notes.
type NoteStore interface {
	Save(ctx context.Context, record ConsultationNote) (ConsultationNote, error)
	View(ctx context.Context, id string) (ConsultationNote, error)
	ListByTemplate(ctx context.Context, templateID string) ([]ConsultationNote, error)
}
