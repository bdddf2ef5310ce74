// Package postgres persists templates and consultation notes in PostgreSQL
// through pgx. Tree content, groups and version history ride in JSONB
// columns so the wire shape stored is the exact shape serialized by the
// document package.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/template"
	"github.com/goliatone/go-notegen/pkg/version"
)

// Migration is the DDL for both tables. Safe to execute repeatedly.
const Migration = `
CREATE TABLE IF NOT EXISTS note_templates (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    template_type   TEXT NOT NULL DEFAULT 'normal',
    content         JSONB NOT NULL,
    groups          JSONB NOT NULL DEFAULT '[]',
    version_history JSONB NOT NULL DEFAULT '[]',
    status          TEXT NOT NULL DEFAULT 'active',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS consultation_notes (
    id                  TEXT PRIMARY KEY,
    template_id         TEXT NOT NULL,
    template_version_id INTEGER NOT NULL DEFAULT 0,
    data                JSONB NOT NULL DEFAULT '{}',
    content             JSONB NOT NULL,
    version_history     JSONB NOT NULL DEFAULT '[]',
    status              TEXT NOT NULL DEFAULT 'active',
    is_active           BOOLEAN NOT NULL DEFAULT true,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_consultation_notes_template_id
    ON consultation_notes (template_id);
`

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TemplateStore is a PostgreSQL template.TemplateStore.
type TemplateStore struct {
	db queryable
}

// NewTemplateStore wraps a pgx pool.
func NewTemplateStore(pool *pgxpool.Pool) *TemplateStore {
	return &TemplateStore{db: pool}
}

const templateCols = `id, name, description, template_type, content, groups,
	version_history, status, created_at, updated_at`

func scanTemplate(row pgx.Row) (template.Template, error) {
	var (
		record     template.Template
		contentRaw []byte
		groupsRaw  []byte
		historyRaw []byte
	)
	err := row.Scan(&record.ID, &record.Name, &record.Description, &record.Type,
		&contentRaw, &groupsRaw, &historyRaw,
		&record.Status, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return template.Template{}, err
	}
	if record.Content, err = document.Unmarshal(contentRaw); err != nil {
		return template.Template{}, fmt.Errorf("postgres: decode template content: %w", err)
	}
	if err := json.Unmarshal(groupsRaw, &record.Groups); err != nil {
		return template.Template{}, fmt.Errorf("postgres: decode template groups: %w", err)
	}
	if err := json.Unmarshal(historyRaw, &record.VersionHistory); err != nil {
		return template.Template{}, fmt.Errorf("postgres: decode template history: %w", err)
	}
	return record, nil
}

func (s *TemplateStore) Save(ctx context.Context, record template.Template) (template.Template, error) {
	contentRaw, groupsRaw, historyRaw, err := encodeTemplate(record)
	if err != nil {
		return template.Template{}, err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO note_templates (id, name, description, template_type, content, groups,
			version_history, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			template_type = EXCLUDED.template_type,
			content = EXCLUDED.content,
			groups = EXCLUDED.groups,
			version_history = EXCLUDED.version_history,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		record.ID, record.Name, record.Description, record.Type, contentRaw, groupsRaw,
		historyRaw, record.Status, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return template.Template{}, fmt.Errorf("postgres: save template %q: %w", record.ID, err)
	}
	return record, nil
}

func (s *TemplateStore) View(ctx context.Context, id string) (template.Template, error) {
	record, err := scanTemplate(s.db.QueryRow(ctx,
		`SELECT `+templateCols+` FROM note_templates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return template.Template{}, template.ErrNotFound
	}
	if err != nil {
		return template.Template{}, fmt.Errorf("postgres: view template %q: %w", id, err)
	}
	return record, nil
}

func (s *TemplateStore) List(ctx context.Context) ([]template.Summary, error) {
	return s.listSummaries(ctx, `SELECT id, name, description, template_type, status, updated_at
		FROM note_templates ORDER BY name`)
}

func (s *TemplateStore) ListActive(ctx context.Context) ([]template.Summary, error) {
	return s.listSummaries(ctx, `SELECT id, name, description, template_type, status, updated_at
		FROM note_templates WHERE status = 'active' ORDER BY name`)
}

func (s *TemplateStore) listSummaries(ctx context.Context, query string) ([]template.Summary, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list templates: %w", err)
	}
	defer rows.Close()

	var summaries []template.Summary
	for rows.Next() {
		var summary template.Summary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Description,
			&summary.Type, &summary.Status, &summary.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan template summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM note_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete template %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return template.ErrNotFound
	}
	return nil
}

// NoteStore is a PostgreSQL template.NoteStore.
type NoteStore struct {
	db queryable
}

// NewNoteStore wraps a pgx pool.
func NewNoteStore(pool *pgxpool.Pool) *NoteStore {
	return &NoteStore{db: pool}
}

const noteCols = `id, template_id, template_version_id, data, content,
	version_history, status, is_active, created_at, updated_at`

func scanNote(row pgx.Row) (template.ConsultationNote, error) {
	var (
		record     template.ConsultationNote
		dataRaw    []byte
		contentRaw []byte
		historyRaw []byte
	)
	err := row.Scan(&record.ID, &record.TemplateID, &record.TemplateVersionID,
		&dataRaw, &contentRaw, &historyRaw,
		&record.Status, &record.IsActive, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return template.ConsultationNote{}, err
	}
	if err := json.Unmarshal(dataRaw, &record.Data); err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: decode note data: %w", err)
	}
	if record.Content, err = document.Unmarshal(contentRaw); err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: decode note content: %w", err)
	}
	if err := json.Unmarshal(historyRaw, &record.VersionHistory); err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: decode note history: %w", err)
	}
	return record, nil
}

func (s *NoteStore) Save(ctx context.Context, record template.ConsultationNote) (template.ConsultationNote, error) {
	dataRaw, err := json.Marshal(valueOrEmptyMap(record.Data))
	if err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: encode note data: %w", err)
	}
	contentRaw, err := document.Marshal(record.Content)
	if err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: encode note content: %w", err)
	}
	historyRaw, err := json.Marshal(valueOrEmptyHistory(record.VersionHistory))
	if err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: encode note history: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO consultation_notes (id, template_id, template_version_id, data, content,
			version_history, status, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			content = EXCLUDED.content,
			version_history = EXCLUDED.version_history,
			status = EXCLUDED.status,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		record.ID, record.TemplateID, record.TemplateVersionID, dataRaw, contentRaw,
		historyRaw, record.Status, record.IsActive, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: save note %q: %w", record.ID, err)
	}
	return record, nil
}

func (s *NoteStore) View(ctx context.Context, id string) (template.ConsultationNote, error) {
	record, err := scanNote(s.db.QueryRow(ctx,
		`SELECT `+noteCols+` FROM consultation_notes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return template.ConsultationNote{}, template.ErrNotFound
	}
	if err != nil {
		return template.ConsultationNote{}, fmt.Errorf("postgres: view note %q: %w", id, err)
	}
	return record, nil
}

func (s *NoteStore) ListByTemplate(ctx context.Context, templateID string) ([]template.ConsultationNote, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+noteCols+` FROM consultation_notes WHERE template_id = $1 ORDER BY created_at`, templateID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list notes for template %q: %w", templateID, err)
	}
	defer rows.Close()

	var notes []template.ConsultationNote
	for rows.Next() {
		record, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan note: %w", err)
		}
		notes = append(notes, record)
	}
	return notes, rows.Err()
}

func encodeTemplate(record template.Template) (content, groups, history []byte, err error) {
	if content, err = document.Marshal(record.Content); err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: encode template content: %w", err)
	}
	if record.Groups == nil {
		record.Groups = []document.Group{}
	}
	if groups, err = json.Marshal(record.Groups); err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: encode template groups: %w", err)
	}
	if history, err = json.Marshal(valueOrEmptyHistory(record.VersionHistory)); err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: encode template history: %w", err)
	}
	return content, groups, history, nil
}

func valueOrEmptyMap(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}

func valueOrEmptyHistory(history []version.Entry) []version.Entry {
	if history == nil {
		return []version.Entry{}
	}
	return history
}
