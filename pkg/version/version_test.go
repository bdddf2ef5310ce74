package version_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/version"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	}
}

func contentWith(text string) *document.Node {
	return document.Doc(document.Paragraph(document.Text(text)))
}

func TestCommit_FirstSaveHoldsSavedContent(t *testing.T) {
	manager := version.New(version.WithClock(fixedClock()))
	current := version.Snapshot{Content: contentWith("first draft"), Name: "Ward Round"}

	entry, err := manager.Commit(current, version.Snapshot{}, nil)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if entry == nil {
		t.Fatalf("first save must produce an entry")
	}
	if entry.Version != 1 {
		t.Fatalf("first save version = %d, want 1", entry.Version)
	}
	if !document.Equal(entry.Snapshot.Content, current.Content) {
		t.Fatalf("first entry must hold the saved content")
	}
}

func TestCommit_SnapshotsPreviousContent(t *testing.T) {
	manager := version.New(version.WithClock(fixedClock()))
	previous := version.Snapshot{Content: contentWith("v1"), Name: "Ward Round"}
	current := version.Snapshot{Content: contentWith("v2"), Name: "Ward Round"}
	history := []version.Entry{{Version: 1, Snapshot: previous}}

	entry, err := manager.Commit(current, previous, history)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if entry == nil {
		t.Fatalf("changed content must produce an entry")
	}
	if entry.Version != 2 {
		t.Fatalf("version = %d, want 2", entry.Version)
	}
	if !document.Equal(entry.Snapshot.Content, previous.Content) {
		t.Fatalf("entry must snapshot the previous content, not the new one")
	}
	if diff := cmp.Diff([]string{"content"}, entry.ChangedFields); diff != "" {
		t.Fatalf("changed fields mismatch (-want +got):\n%s", diff)
	}
}

func TestCommit_NoChangeIsNoOp(t *testing.T) {
	manager := version.New()
	state := version.Snapshot{
		Content: contentWith("unchanged"),
		Groups:  []document.Group{{ID: "g1", Name: "Vitals", Status: document.GroupActive}},
		Name:    "Ward Round",
	}
	history := []version.Entry{{Version: 1, Snapshot: state}}

	entry, err := manager.Commit(state, state, history)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if entry != nil {
		t.Fatalf("unchanged save must return nil, got version %d", entry.Version)
	}
}

func TestCommit_TracksNoteData(t *testing.T) {
	manager := version.New()
	previous := version.Snapshot{Data: map[string]any{"diagnosis": "asthma"}}
	current := version.Snapshot{Data: map[string]any{"diagnosis": "asthma", "followup": true}}
	history := []version.Entry{{Version: 1, Snapshot: previous}}

	entry, err := manager.Commit(current, previous, history)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if entry == nil {
		t.Fatalf("data change must produce an entry")
	}
	if diff := cmp.Diff([]string{"data"}, entry.ChangedFields); diff != "" {
		t.Fatalf("changed fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore_ReturnsSnapshotWithoutNewEntry(t *testing.T) {
	manager := version.New()
	v1 := version.Snapshot{Content: contentWith("v1")}
	v2 := version.Snapshot{Content: contentWith("v2")}
	history := []version.Entry{
		{Version: 1, Snapshot: v1},
		{Version: 2, Snapshot: v2},
	}

	restored, err := manager.Restore(history, 1)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !document.Equal(restored.Content, v1.Content) {
		t.Fatalf("restore must return the stored snapshot verbatim")
	}
	if len(history) != 2 {
		t.Fatalf("restore must not append entries")
	}

	if _, err := manager.Restore(history, 9); err == nil {
		t.Fatalf("expected error for missing version")
	}
}

func TestRestoreThenUnchangedSaveCreatesNoEntry(t *testing.T) {
	manager := version.New()
	v1 := version.Snapshot{Content: contentWith("v1")}
	history := []version.Entry{{Version: 1, Snapshot: v1}}

	restored, err := manager.Restore(history, 1)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	// Current state already equals the restored snapshot.
	entry, err := manager.Commit(restored, v1, history)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if entry != nil {
		t.Fatalf("re-saving identical restored content must be a no-op")
	}

	// Current state differs from the restored snapshot.
	current := version.Snapshot{Content: contentWith("edited after restore")}
	entry, err = manager.Commit(current, restored, history)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if entry == nil || entry.Version != 2 {
		t.Fatalf("differing restored content must append version 2, got %+v", entry)
	}
}
