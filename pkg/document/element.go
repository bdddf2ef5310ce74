package document

import (
	"encoding/json"
)

// ElementType enumerates the typed input controls a formElement can embed.
type ElementType string

const (
	ElementInput       ElementType = "input"
	ElementNumeric     ElementType = "numeric"
	ElementTextarea    ElementType = "textarea"
	ElementCheckbox    ElementType = "checkbox"
	ElementSelect      ElementType = "select"
	ElementDatetime    ElementType = "datetime"
	ElementSignature   ElementType = "signature"
	ElementVoiceToText ElementType = "voice_to_text"
)

// BindingType distinguishes manual entry from API-sourced values.
type BindingType string

const (
	BindingManual BindingType = "manual"
	BindingAPI    BindingType = "api"
)

const attrElementKey = "elementKey"

// DataBinding declares how an element's value is auto-populated.
type DataBinding struct {
	Type          BindingType `json:"type"`
	Source        string      `json:"source,omitempty"`
	APIEndpoint   string      `json:"apiEndpoint,omitempty"`
	DataPath      string      `json:"dataPath,omitempty"`
	FallbackValue string      `json:"fallbackValue,omitempty"`
}

// SelectOption is one choice of a select element.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormElement is the typed view over a formElement node's attrs. ElementKey is
// the data-binding join key: unique within a document and immutable once
// created. Renderers and resolvers index element values by it.
type FormElement struct {
	ElementType  ElementType  `json:"elementType"`
	Label        string       `json:"label"`
	ElementKey   string       `json:"elementKey"`
	DefaultValue string       `json:"defaultValue,omitempty"`
	Required     bool         `json:"required,omitempty"`
	Placeholder  string       `json:"placeholder,omitempty"`
	HelpText     string       `json:"helpText,omitempty"`
	GroupID      *string      `json:"group_id,omitempty"`
	DataField    string       `json:"dataField,omitempty"`
	DataBinding  *DataBinding `json:"data_binding,omitempty"`

	// Text constraints.
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Numeric constraints.
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// Select choices.
	Options []SelectOption `json:"options,omitempty"`

	// Datetime display.
	ShowTimeOnly bool `json:"showTimeOnly,omitempty"`
}

// ElementOf decodes the typed form element from a formElement node. The second
// return is false for any other node kind.
func ElementOf(n *Node) (FormElement, bool) {
	if n == nil || n.Type != KindFormElement {
		return FormElement{}, false
	}
	var el FormElement
	data, err := json.Marshal(n.Attrs)
	if err != nil {
		return FormElement{}, false
	}
	if err := json.Unmarshal(data, &el); err != nil {
		return FormElement{}, false
	}
	return el, true
}

// attrsMap converts the typed element back into the generic attrs shape used
// on the wire. Conversion goes through JSON so attr keys stay in one place.
func (el FormElement) attrsMap() map[string]any {
	data, err := json.Marshal(el)
	if err != nil {
		return map[string]any{}
	}
	attrs := map[string]any{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return map[string]any{}
	}
	return attrs
}
