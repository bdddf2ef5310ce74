// Package editor holds the state of the interactive builder surface: which
// element is selected, the value map the controls write through, and the
// command queue that defers tree mutations raised mid-dispatch until the
// dispatch finishes.
package editor

import (
	"github.com/goliatone/go-notegen/pkg/document"
)

// Command is a deferred mutation against the surface.
type Command func(*Surface)

// Surface is the builder's working state for one template. It is not safe
// for concurrent use; all calls happen on the event loop.
type Surface struct {
	tree   *document.Node
	values map[string]any

	selected string

	onDataChange func(key string, value any)

	dispatching bool
	queue       []Command
}

// Option configures a new surface.
type Option func(*Surface)

// WithOnDataChange registers the write-through hook invoked for every value
// change. The last write for a key wins; writes are never batched.
func WithOnDataChange(fn func(key string, value any)) Option {
	return func(s *Surface) {
		s.onDataChange = fn
	}
}

// WithValues seeds initial element values.
func WithValues(values map[string]any) Option {
	return func(s *Surface) {
		for key, value := range values {
			s.values[key] = value
		}
	}
}

// New constructs a surface over a content tree.
func New(tree *document.Node, options ...Option) *Surface {
	s := &Surface{
		tree:   tree,
		values: map[string]any{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Tree returns the current content tree.
func (s *Surface) Tree() *document.Node {
	return s.tree
}

// Values returns a copy of the current value map.
func (s *Surface) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Value returns the current value for one element key.
func (s *Surface) Value(key string) (any, bool) {
	value, ok := s.values[key]
	return value, ok
}

// Select marks an element as selected. Selecting a key absent from the tree
// is a no-op; selecting a different key supersedes the current selection.
func (s *Surface) Select(key string) {
	if document.FindElementByKey(s.tree, key) == nil {
		return
	}
	s.selected = key
}

// Deselect returns the surface to the unselected state.
func (s *Surface) Deselect() {
	s.selected = ""
}

// Selected reports the currently selected element key, if any.
func (s *Surface) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// Properties returns the form element bound to the properties panel: the
// selected element, or false when nothing is selected.
func (s *Surface) Properties() (document.FormElement, bool) {
	if s.selected == "" {
		return document.FormElement{}, false
	}
	node := document.FindElementByKey(s.tree, s.selected)
	if node == nil {
		return document.FormElement{}, false
	}
	return document.ElementOf(node)
}

// SetValue writes an element value and notifies the write-through hook.
func (s *Surface) SetValue(key string, value any) {
	s.values[key] = value
	if s.onDataChange != nil {
		s.onDataChange(key, value)
	}
}

// AppendText appends recognized or pasted text to a textual element value,
// separating from existing content with a single space.
func (s *Surface) AppendText(key, text string) {
	if text == "" {
		return
	}
	current, _ := s.values[key].(string)
	if current != "" {
		text = current + " " + text
	}
	s.SetValue(key, text)
}

// ReplaceElement swaps the element with the given key. During a dispatch
// cycle the mutation is queued and applied after the cycle completes.
func (s *Surface) ReplaceElement(key string, el document.FormElement) {
	s.run(func(s *Surface) {
		s.tree = document.ReplaceElement(s.tree, key, el)
	})
}

// RemoveElement deletes the element with the given key. Removing the
// selected element deselects it. Missing keys are a no-op.
func (s *Surface) RemoveElement(key string) {
	s.run(func(s *Surface) {
		s.tree = document.RemoveElement(s.tree, key)
		if s.selected == key {
			s.selected = ""
		}
	})
}

// Dispatch runs one event-handling cycle. Mutations raised inside fn are
// queued and applied once fn returns, so a handler never observes a tree
// that changed under it mid-cycle.
func (s *Surface) Dispatch(fn func(*Surface)) {
	if s.dispatching {
		fn(s)
		return
	}
	s.dispatching = true
	fn(s)
	s.dispatching = false

	for len(s.queue) > 0 {
		queued := s.queue
		s.queue = nil
		for _, command := range queued {
			command(s)
		}
	}
}

func (s *Surface) run(command Command) {
	if s.dispatching {
		s.queue = append(s.queue, command)
		return
	}
	command(s)
}
