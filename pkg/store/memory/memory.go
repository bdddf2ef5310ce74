// Package memory provides map-backed stores for tests and the CLI. Records
// are copied through JSON on the way in and out so callers never share tree
// pointers with the store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-notegen/pkg/template"
)

// TemplateStore is an in-memory template.TemplateStore.
type TemplateStore struct {
	mu      sync.RWMutex
	records map[string]template.Template
}

// NewTemplateStore constructs an empty template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{records: make(map[string]template.Template)}
}

func (s *TemplateStore) Save(_ context.Context, record template.Template) (template.Template, error) {
	if record.ID == "" {
		return template.Template{}, fmt.Errorf("memory: template id is required")
	}
	copied, err := copyRecord(record)
	if err != nil {
		return template.Template{}, err
	}
	s.mu.Lock()
	s.records[record.ID] = copied
	s.mu.Unlock()
	return record, nil
}

func (s *TemplateStore) View(_ context.Context, id string) (template.Template, error) {
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return template.Template{}, template.ErrNotFound
	}
	return copyRecord(record)
}

func (s *TemplateStore) List(_ context.Context) ([]template.Summary, error) {
	return s.list(func(template.Template) bool { return true })
}

func (s *TemplateStore) ListActive(_ context.Context) ([]template.Summary, error) {
	return s.list(func(record template.Template) bool {
		return record.Status == template.StatusActive
	})
}

func (s *TemplateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return template.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *TemplateStore) list(keep func(template.Template) bool) ([]template.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]template.Summary, 0, len(s.records))
	for _, record := range s.records {
		if !keep(record) {
			continue
		}
		summaries = append(summaries, template.Summary{
			ID:          record.ID,
			Name:        record.Name,
			Description: record.Description,
			Type:        record.Type,
			Status:      record.Status,
			UpdatedAt:   record.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// NoteStore is an in-memory template.NoteStore.
type NoteStore struct {
	mu      sync.RWMutex
	records map[string]template.ConsultationNote
}

// NewNoteStore constructs an empty note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{records: make(map[string]template.ConsultationNote)}
}

func (s *NoteStore) Save(_ context.Context, record template.ConsultationNote) (template.ConsultationNote, error) {
	if record.ID == "" {
		return template.ConsultationNote{}, fmt.Errorf("memory: note id is required")
	}
	copied, err := copyRecord(record)
	if err != nil {
		return template.ConsultationNote{}, err
	}
	s.mu.Lock()
	s.records[record.ID] = copied
	s.mu.Unlock()
	return record, nil
}

func (s *NoteStore) View(_ context.Context, id string) (template.ConsultationNote, error) {
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return template.ConsultationNote{}, template.ErrNotFound
	}
	return copyRecord(record)
}

func (s *NoteStore) ListByTemplate(_ context.Context, templateID string) ([]template.ConsultationNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var notes []template.ConsultationNote
	for _, record := range s.records {
		if record.TemplateID != templateID {
			continue
		}
		copied, err := copyRecord(record)
		if err != nil {
			return nil, err
		}
		notes = append(notes, copied)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.Before(notes[j].CreatedAt) })
	return notes, nil
}

func copyRecord[T any](record T) (T, error) {
	var out T
	encoded, err := json.Marshal(record)
	if err != nil {
		return out, fmt.Errorf("memory: copy record: %w", err)
	}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return out, fmt.Errorf("memory: copy record: %w", err)
	}
	return out, nil
}
