// Package importer builds a note template from an OpenAPI operation: the
// request-body object schema becomes a content tree with one form element
// per property, so an existing form definition can seed a template instead
// of authoring it from scratch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/template"
)

// longTextThreshold is the maxLength above which a string property becomes
// a textarea instead of a single-line input.
const longTextThreshold = 255

// FromOpenAPI parses an OpenAPI document and converts the named operation's
// request body into a template. An empty operationID picks the first
// operation that carries a JSON object request body.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (template.Template, error) {
	if len(raw) == 0 {
		return template.Template{}, errors.New("importer: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return template.Template{}, fmt.Errorf("importer: load document: %w", err)
	}

	operation, opID, err := findOperation(spec, operationID)
	if err != nil {
		return template.Template{}, err
	}

	schema := requestSchema(operation)
	if schema == nil || !schema.Type.Is(openapi3.TypeObject) || len(schema.Properties) == 0 {
		return template.Template{}, fmt.Errorf("importer: operation %q has no object request body", opID)
	}

	name := operation.Summary
	if name == "" {
		name = labelFromKey(opID)
	}

	children := []*document.Node{document.Heading(1, document.Text(name))}
	if operation.Description != "" {
		children = append(children, document.Paragraph(document.Text(operation.Description)))
	}

	required := make(map[string]bool, len(schema.Required))
	for _, field := range schema.Required {
		required[field] = true
	}

	for _, property := range sortedProperties(schema.Properties) {
		el := elementFromSchema(property.name, property.schema, required[property.name])
		children = append(children, document.Paragraph(document.Element(el)))
	}

	return template.Template{
		Name:        name,
		Description: operation.Description,
		Type:        template.TypeNormal,
		Status:      template.StatusActive,
		Content:     document.Doc(children...),
		Groups:      []document.Group{},
	}, nil
}

type namedSchema struct {
	name   string
	schema *openapi3.Schema
}

func sortedProperties(properties openapi3.Schemas) []namedSchema {
	out := make([]namedSchema, 0, len(properties))
	for name, ref := range properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		out = append(out, namedSchema{name: name, schema: ref.Value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, string, error) {
	if spec.Paths == nil {
		return nil, "", errors.New("importer: document contains no paths")
	}
	var (
		found   *openapi3.Operation
		foundID string
	)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			opID := operation.OperationID
			if opID == "" {
				opID = strings.ToLower(method) + ":" + path
			}
			if operationID != "" {
				if opID == operationID {
					return operation, opID, nil
				}
				continue
			}
			if requestSchema(operation) != nil && found == nil {
				found = operation
				foundID = opID
			}
		}
	}
	if operationID != "" {
		return nil, "", fmt.Errorf("importer: operation %q not found", operationID)
	}
	if found == nil {
		return nil, "", errors.New("importer: no operation with a request body")
	}
	return found, foundID, nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func elementFromSchema(name string, schema *openapi3.Schema, required bool) document.FormElement {
	el := document.FormElement{
		ElementKey: name,
		Label:      labelOf(name, schema),
		Required:   required,
		HelpText:   schema.Description,
	}
	if schema.Default != nil {
		el.DefaultValue = fmt.Sprintf("%v", schema.Default)
	}

	if len(schema.Enum) > 0 {
		el.ElementType = document.ElementSelect
		for _, value := range schema.Enum {
			text := fmt.Sprintf("%v", value)
			el.Options = append(el.Options, document.SelectOption{Label: text, Value: text})
		}
		return el
	}

	switch {
	case schema.Type.Is(openapi3.TypeBoolean):
		el.ElementType = document.ElementCheckbox
	case schema.Type.Is(openapi3.TypeNumber), schema.Type.Is(openapi3.TypeInteger):
		el.ElementType = document.ElementNumeric
		if schema.Min != nil {
			value := *schema.Min
			el.Min = &value
		}
		if schema.Max != nil {
			value := *schema.Max
			el.Max = &value
		}
		if schema.Type.Is(openapi3.TypeInteger) {
			step := 1.0
			el.Step = &step
		}
	case schema.Type.Is(openapi3.TypeString) && (schema.Format == "date-time" || schema.Format == "date"):
		el.ElementType = document.ElementDatetime
	case schema.Type.Is(openapi3.TypeString) && schema.Format == "time":
		el.ElementType = document.ElementDatetime
		el.ShowTimeOnly = true
	default:
		el.ElementType = document.ElementInput
		if schema.MaxLength != nil && *schema.MaxLength > longTextThreshold {
			el.ElementType = document.ElementTextarea
		}
		if schema.MinLength != 0 {
			value := int(schema.MinLength)
			el.MinLength = &value
		}
		if schema.MaxLength != nil {
			value := int(*schema.MaxLength)
			el.MaxLength = &value
		}
		if schema.Pattern != "" {
			el.Pattern = schema.Pattern
		}
	}
	return el
}

func labelOf(name string, schema *openapi3.Schema) string {
	if schema.Title != "" {
		return schema.Title
	}
	return labelFromKey(name)
}

func labelFromKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ':' || r == '/'
	})
	if len(words) == 0 {
		return key
	}
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = strings.ToUpper(string(r)) + word[size:]
	}
	return strings.Join(words, " ")
}
