package fill

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/physexam"
	"github.com/goliatone/go-notegen/pkg/registry"
	"github.com/goliatone/go-notegen/pkg/render"
)

// Option configures a filling session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithRegistry overrides the field registry consulted for modal fields.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithOnDataChange registers the write-through hook invoked for every
// answered prompt, in document order.
func WithOnDataChange(fn func(key string, value any)) Option {
	return func(s *Session) {
		s.onDataChange = fn
	}
}

// Session prompts through a template's elements one by one.
type Session struct {
	driver       PromptDriver
	registry     *registry.Registry
	onDataChange func(key string, value any)
}

// New constructs a session. Without options it prompts on the terminal using
// the default field registry.
func New(options ...Option) (*Session, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("fill: load registry: %w", err)
	}
	s := &Session{
		driver:   newSurveyDriver(),
		registry: reg,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Run walks the tree's form elements in document order, prompting for each.
// Already-present values become prompt defaults. The returned map holds the
// initial values overlaid with every answer.
func (s *Session) Run(ctx context.Context, tree *document.Node, initial map[string]any) (map[string]any, error) {
	elements := document.ExtractElements(tree)
	values := make(map[string]any, len(elements)+len(initial))
	for key, value := range initial {
		values[key] = value
	}

	for _, el := range elements {
		if el.ElementKey == "" {
			continue
		}
		value, answered, err := s.promptElement(ctx, el, elements, values)
		if err != nil {
			return nil, err
		}
		if !answered {
			continue
		}
		if merged, ok := value.(map[string]any); ok {
			// Modal flows hand back values for several targets at once.
			for key, v := range merged {
				s.write(values, key, v)
			}
			continue
		}
		s.write(values, el.ElementKey, value)
	}
	return values, nil
}

func (s *Session) write(values map[string]any, key string, value any) {
	values[key] = value
	if s.onDataChange != nil {
		s.onDataChange(key, value)
	}
}

func (s *Session) promptElement(ctx context.Context, el document.FormElement, elements []document.FormElement, values map[string]any) (any, bool, error) {
	if el.DataField != "" {
		if def, ok := s.registry.Lookup(el.DataField); ok && def.Actions.Type == registry.ActionModelOpen {
			merged, err := s.runExam(ctx, el, elements)
			if err != nil {
				return nil, false, err
			}
			return merged, true, nil
		}
	}

	message := el.Label
	if message == "" {
		message = el.ElementKey
	}
	current := render.ValueString(values[el.ElementKey])
	if current == "" {
		current = el.DefaultValue
	}

	switch el.ElementType {
	case document.ElementTextarea, document.ElementVoiceToText:
		answer, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current,
			Help:    el.HelpText,
		})
		return answer, err == nil, err
	case document.ElementCheckbox:
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: render.Truthy(values[el.ElementKey]),
			Help:    el.HelpText,
		})
		return answer, err == nil, err
	case document.ElementSelect:
		labels := make([]string, 0, len(el.Options))
		defaultIndex := 0
		for i, option := range el.Options {
			labels = append(labels, option.Label)
			if option.Value == current {
				defaultIndex = i
			}
		}
		if len(labels) == 0 {
			return nil, false, nil
		}
		index, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         el.HelpText,
		})
		if err != nil {
			return nil, false, err
		}
		if index < 0 || index >= len(el.Options) {
			return nil, false, nil
		}
		return el.Options[index].Value, true, nil
	case document.ElementNumeric:
		answer, err := s.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current,
			Help:      el.HelpText,
			Validator: numericValidator(el),
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(answer) == "" {
			return nil, false, nil
		}
		parsed, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return nil, false, fmt.Errorf("fill: numeric answer for %q: %w", el.ElementKey, err)
		}
		return parsed, true, nil
	case document.ElementSignature:
		// Signatures need a drawing surface; the terminal flow skips them.
		if err := s.driver.Info(ctx, fmt.Sprintf("skipping signature field %q", el.ElementKey)); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	default:
		answer, err := s.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     current,
			Help:        el.HelpText,
			Placeholder: el.Placeholder,
			Validator:   requiredValidator(el),
		})
		if err != nil {
			return nil, false, err
		}
		if answer == "" {
			return nil, false, nil
		}
		return answer, true, nil
	}
}

var statusChoices = []string{"skip", "normal", "abnormal"}

// runExam walks the physical-exam checklist: one status prompt per finding,
// then Apply maps section summaries back onto their target elements.
func (s *Session) runExam(ctx context.Context, origin document.FormElement, elements []document.FormElement) (map[string]any, error) {
	exam, err := physexam.NewExam()
	if err != nil {
		return nil, err
	}

	for _, section := range exam.Sections {
		if err := s.driver.Info(ctx, "-- "+section.Name+" --"); err != nil {
			return nil, err
		}
		for _, finding := range section.Findings {
			choice, err := s.driver.Select(ctx, SelectConfig{
				Message: finding.Name,
				Options: statusChoices,
			})
			if err != nil {
				return nil, err
			}
			for i := 0; i < choice; i++ {
				exam.Toggle(section.Name, finding.Name)
			}
		}
	}
	return physexam.Apply(exam, elements, origin.ElementKey), nil
}

func requiredValidator(el document.FormElement) func(string) error {
	if !el.Required {
		return nil
	}
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			return errors.New("a value is required")
		}
		return nil
	}
}

func numericValidator(el document.FormElement) func(string) error {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			if el.Required {
				return errors.New("a value is required")
			}
			return nil
		}
		value, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if el.Min != nil && value < *el.Min {
			return fmt.Errorf("must be at least %v", *el.Min)
		}
		if el.Max != nil && value > *el.Max {
			return fmt.Errorf("must be at most %v", *el.Max)
		}
		return nil
	}
}
