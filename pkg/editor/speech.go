package editor

import (
	"fmt"

	"github.com/goliatone/go-notegen/pkg/document"
)

// SpeechRecognizer is a host capability for voice dictation. Start begins a
// session delivering recognized text and errors through the callbacks; Stop
// ends it. Both callbacks fire on the host's event loop.
type SpeechRecognizer interface {
	Start(onResult func(text string), onError func(err error)) error
	Stop() error
}

// DictationSession routes recognized text into one voice_to_text element.
type DictationSession struct {
	surface    *Surface
	recognizer SpeechRecognizer
	key        string
}

// StartDictation begins dictating into the element with the given key. The
// element must be a voice_to_text element present in the tree; recognized
// text is appended to its current value, write-through included.
func (s *Surface) StartDictation(key string, recognizer SpeechRecognizer, onError func(error)) (*DictationSession, error) {
	node := document.FindElementByKey(s.tree, key)
	if node == nil {
		return nil, fmt.Errorf("editor: element %q not found", key)
	}
	el, ok := document.ElementOf(node)
	if !ok || el.ElementType != document.ElementVoiceToText {
		return nil, fmt.Errorf("editor: element %q is not a voice_to_text element", key)
	}

	session := &DictationSession{surface: s, recognizer: recognizer, key: key}
	err := recognizer.Start(func(text string) {
		s.AppendText(key, text)
	}, func(err error) {
		if onError != nil {
			onError(err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("editor: start dictation for %q: %w", key, err)
	}
	return session, nil
}

// Stop ends the dictation session.
func (d *DictationSession) Stop() error {
	if err := d.recognizer.Stop(); err != nil {
		return fmt.Errorf("editor: stop dictation for %q: %w", d.key, err)
	}
	return nil
}
