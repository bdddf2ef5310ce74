// Package version keeps the append-only edit history for templates and
// consultation notes. A commit deep-compares the tracked fields against the
// last stored state and snapshots what the record looked like before the
// edit, so any point in history can be restored.
package version

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-notegen/pkg/document"
)

// Snapshot is the set of tracked fields captured by an entry. Templates use
// Content, Groups, Name and Description; notes use Data.
type Snapshot struct {
	Content     *document.Node   `json:"content,omitempty"`
	Groups      []document.Group `json:"groups,omitempty"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Data        map[string]any   `json:"data,omitempty"`
}

// Entry is one immutable history record. Entries are appended, never mutated
// or deleted.
type Entry struct {
	Version       int       `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	Snapshot      Snapshot  `json:"snapshot"`
	ChangedFields []string  `json:"changedFields,omitempty"`
}

// Option configures the manager.
type Option func(*Manager)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager produces and reads history entries.
type Manager struct {
	now func() time.Time
}

// New constructs a Manager.
func New(options ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Commit compares current against previous and returns the entry to append,
// or nil when nothing tracked changed. The first save has no prior state and
// yields version 1 holding the content being saved; every later entry
// snapshots the previous state, so history reads as "what it looked like
// before this edit".
func (m *Manager) Commit(current, previous Snapshot, history []Entry) (*Entry, error) {
	changed, err := changedFields(current, previous)
	if err != nil {
		return nil, err
	}

	if len(history) == 0 {
		return &Entry{
			Version:       1,
			Timestamp:     m.now(),
			Snapshot:      current,
			ChangedFields: changed,
		}, nil
	}
	if len(changed) == 0 {
		return nil, nil
	}
	return &Entry{
		Version:       history[len(history)-1].Version + 1,
		Timestamp:     m.now(),
		Snapshot:      previous,
		ChangedFields: changed,
	}, nil
}

// Restore returns the snapshot stored at the given version, verbatim.
// Restoring creates no entry; a later save diffs the restored content the
// same as any other edit.
func (m *Manager) Restore(history []Entry, version int) (Snapshot, error) {
	for _, entry := range history {
		if entry.Version == version {
			return entry.Snapshot, nil
		}
	}
	return Snapshot{}, fmt.Errorf("version: version %d not found in history of %d entries", version, len(history))
}

// changedFields reports which tracked fields differ, compared through
// canonical JSON so attribute maps with different insertion orders still
// count as equal.
func changedFields(current, previous Snapshot) ([]string, error) {
	var changed []string
	fields := []struct {
		name     string
		current  any
		previous any
	}{
		{"content", current.Content, previous.Content},
		{"groups", current.Groups, previous.Groups},
		{"name", current.Name, previous.Name},
		{"description", current.Description, previous.Description},
		{"data", current.Data, previous.Data},
	}
	for _, field := range fields {
		same, err := jsonEqual(field.current, field.previous)
		if err != nil {
			return nil, fmt.Errorf("version: compare %s: %w", field.name, err)
		}
		if !same {
			changed = append(changed, field.name)
		}
	}
	return changed, nil
}

func jsonEqual(a, b any) (bool, error) {
	left, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return string(left) == string(right), nil
}
