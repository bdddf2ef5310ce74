package template

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/resolve"
	"github.com/goliatone/go-notegen/pkg/version"
)

// ErrStaleSelection reports an auto-fill result that arrived after the user
// moved on to a different template. The result must be discarded, not
// applied.
var ErrStaleSelection = errors.New("template: selection superseded")

// ServiceOption configures the lifecycle service.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Service owns the template and note lifecycle: sanitizing content, keeping
// version history and materializing notes with auto-filled values.
type Service struct {
	templates TemplateStore
	notes     NoteStore
	versions  *version.Manager
	resolver  *resolve.Resolver
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	selected string
}

// NewService wires the service. The resolver may be nil when auto-fill is
// not needed.
func NewService(templates TemplateStore, notes NoteStore, resolver *resolve.Resolver, options ...ServiceOption) *Service {
	s := &Service{
		templates: templates,
		notes:     notes,
		versions:  version.New(),
		resolver:  resolver,
		log:       zerolog.Nop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// SaveTemplate sanitizes, defaults and persists a template, appending a
// version entry when the tracked fields changed since the stored state.
// Saving an unchanged template touches nothing but UpdatedAt.
func (s *Service) SaveTemplate(ctx context.Context, record Template) (Template, error) {
	record.Content = sanitizeContent(record.Content)
	applyDefaults(&record)

	previous := version.Snapshot{}
	if record.ID != "" {
		stored, err := s.templates.View(ctx, record.ID)
		switch {
		case err == nil:
			previous = templateSnapshot(stored)
			record.VersionHistory = stored.VersionHistory
			record.CreatedAt = stored.CreatedAt
		case errors.Is(err, ErrNotFound):
			// New record with a caller-assigned id.
		default:
			return Template{}, fmt.Errorf("template: load previous state: %w", err)
		}
	}
	if record.ID == "" {
		record.ID = s.newID()
		record.CreatedAt = s.now()
	}

	entry, err := s.versions.Commit(templateSnapshot(record), previous, record.VersionHistory)
	if err != nil {
		return Template{}, err
	}
	if entry != nil {
		record.VersionHistory = append(record.VersionHistory, *entry)
	}
	record.UpdatedAt = s.now()

	saved, err := s.templates.Save(ctx, record)
	if err != nil {
		return Template{}, fmt.Errorf("template: save template %q: %w", record.ID, err)
	}
	s.log.Debug().Str("template_id", saved.ID).Int("versions", len(saved.VersionHistory)).Msg("template saved")
	return saved, nil
}

// SelectTemplate records the active selection for auto-fill staleness
// checks. Selecting clears nothing; it only supersedes earlier selections.
func (s *Service) SelectTemplate(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

func (s *Service) currentSelection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ResolveSelection auto-fills the elements of the selected template. When
// the selection changed while the fetches were in flight, the result is
// discarded and ErrStaleSelection returned.
func (s *Service) ResolveSelection(ctx context.Context, templateID string, cc resolve.ClinicalContext) (map[string]any, error) {
	if s.resolver == nil {
		return map[string]any{}, nil
	}
	record, err := s.templates.View(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("template: view template %q: %w", templateID, err)
	}

	values := s.resolver.Resolve(ctx, document.ExtractElements(record.Content), cc)

	if current := s.currentSelection(); current != "" && current != templateID {
		s.log.Debug().Str("template_id", templateID).Str("selected", current).Msg("dropping stale auto-fill result")
		return nil, ErrStaleSelection
	}
	return values, nil
}

// CreateNote materializes a consultation note from a template: the content
// tree is an independent copy taken now, and element values are auto-filled
// from the clinical context. Manual values passed in data win over resolved
// ones.
func (s *Service) CreateNote(ctx context.Context, templateID string, cc resolve.ClinicalContext, data map[string]any) (ConsultationNote, error) {
	record, err := s.templates.View(ctx, templateID)
	if err != nil {
		return ConsultationNote{}, fmt.Errorf("template: view template %q: %w", templateID, err)
	}

	merged := map[string]any{}
	if s.resolver != nil {
		for key, value := range s.resolver.Resolve(ctx, document.ExtractElements(record.Content), cc) {
			merged[key] = value
		}
	}
	for key, value := range data {
		merged[key] = value
	}

	note := ConsultationNote{
		ID:                s.newID(),
		TemplateID:        record.ID,
		TemplateVersionID: latestVersion(record.VersionHistory),
		Data:              merged,
		Content:           document.Clone(record.Content),
		Status:            StatusActive,
		IsActive:          true,
		CreatedAt:         s.now(),
		UpdatedAt:         s.now(),
	}

	entry, err := s.versions.Commit(noteSnapshot(note), version.Snapshot{}, nil)
	if err != nil {
		return ConsultationNote{}, err
	}
	if entry != nil {
		note.VersionHistory = append(note.VersionHistory, *entry)
	}

	saved, err := s.notes.Save(ctx, note)
	if err != nil {
		return ConsultationNote{}, fmt.Errorf("template: save note for template %q: %w", templateID, err)
	}
	return saved, nil
}

// SaveNote persists a note, appending a version entry when the consultation
// data changed since the stored state.
func (s *Service) SaveNote(ctx context.Context, record ConsultationNote) (ConsultationNote, error) {
	previous := version.Snapshot{}
	if record.ID != "" {
		stored, err := s.notes.View(ctx, record.ID)
		switch {
		case err == nil:
			previous = noteSnapshot(stored)
			record.VersionHistory = stored.VersionHistory
			record.CreatedAt = stored.CreatedAt
		case errors.Is(err, ErrNotFound):
		default:
			return ConsultationNote{}, fmt.Errorf("template: load previous note state: %w", err)
		}
	}
	if record.ID == "" {
		record.ID = s.newID()
		record.CreatedAt = s.now()
	}
	if record.Status == "" {
		record.Status = StatusActive
	}

	entry, err := s.versions.Commit(noteSnapshot(record), previous, record.VersionHistory)
	if err != nil {
		return ConsultationNote{}, err
	}
	if entry != nil {
		record.VersionHistory = append(record.VersionHistory, *entry)
	}
	record.UpdatedAt = s.now()

	saved, err := s.notes.Save(ctx, record)
	if err != nil {
		return ConsultationNote{}, fmt.Errorf("template: save note %q: %w", record.ID, err)
	}
	return saved, nil
}

// RestoreVersion returns the snapshot stored at the given template version.
// Nothing is persisted; the caller saves explicitly to adopt the restored
// state.
func (s *Service) RestoreVersion(ctx context.Context, templateID string, versionNumber int) (version.Snapshot, error) {
	record, err := s.templates.View(ctx, templateID)
	if err != nil {
		return version.Snapshot{}, fmt.Errorf("template: view template %q: %w", templateID, err)
	}
	return s.versions.Restore(record.VersionHistory, versionNumber)
}

// DeleteGroup removes a group from the template's group list. Elements that
// referenced it keep their group_id; the dangling reference is reported by
// ValidateGroupReferences, not repaired here.
func (s *Service) DeleteGroup(record Template, groupID string) Template {
	kept := make([]document.Group, 0, len(record.Groups))
	for _, group := range record.Groups {
		if group.ID != groupID {
			kept = append(kept, group)
		}
	}
	record.Groups = kept
	return record
}

// ValidateGroupReferences reports element group_ids with no matching group.
func (s *Service) ValidateGroupReferences(record Template) document.GroupValidation {
	var refs []string
	for _, el := range document.ExtractElements(record.Content) {
		if el.GroupID != nil {
			refs = append(refs, *el.GroupID)
		}
	}
	available := make([]string, 0, len(record.Groups))
	for _, group := range record.Groups {
		available = append(available, group.ID)
	}
	return document.ValidateGroupReferences(refs, available)
}

func applyDefaults(record *Template) {
	if record.Type == "" {
		record.Type = TypeNormal
	}
	if record.Status == "" {
		record.Status = StatusActive
	}
	if record.Groups == nil {
		record.Groups = []document.Group{}
	}
	if record.Content == nil {
		record.Content = document.Doc()
	}
}

func templateSnapshot(record Template) version.Snapshot {
	return version.Snapshot{
		Content:     record.Content,
		Groups:      record.Groups,
		Name:        record.Name,
		Description: record.Description,
	}
}

func noteSnapshot(record ConsultationNote) version.Snapshot {
	return version.Snapshot{Data: record.Data}
}

func latestVersion(history []version.Entry) int {
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].Version
}
