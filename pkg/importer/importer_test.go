package importer_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/importer"
)

const admissionSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Clinic Intake", "version": "1.0.0"},
  "paths": {
    "/admissions": {
      "post": {
        "operationId": "createAdmission",
        "summary": "Admission Intake",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["patient_name"],
                "properties": {
                  "patient_name": {"type": "string", "maxLength": 120, "pattern": "^[A-Za-z ]+$"},
                  "history": {"type": "string", "maxLength": 4000, "description": "Presenting history"},
                  "weight_kg": {"type": "number", "minimum": 0, "maximum": 500},
                  "bed_count": {"type": "integer"},
                  "consent": {"type": "boolean"},
                  "admitted_at": {"type": "string", "format": "date-time"},
                  "ward": {"type": "string", "enum": ["icu", "general"]}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func TestFromOpenAPI_MapsSchemaToElements(t *testing.T) {
	record, err := importer.FromOpenAPI(context.Background(), []byte(admissionSpec), "createAdmission")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if record.Name != "Admission Intake" {
		t.Fatalf("template name = %q", record.Name)
	}

	heading := record.Content.Content[0]
	if heading.Type != document.KindHeading || heading.Content[0].Text != "Admission Intake" {
		t.Fatalf("missing title heading: %+v", heading)
	}

	elements := document.ExtractElements(record.Content)
	byKey := map[string]document.FormElement{}
	for _, el := range elements {
		byKey[el.ElementKey] = el
	}
	if len(byKey) != 7 {
		t.Fatalf("element count = %d, want 7", len(byKey))
	}

	name := byKey["patient_name"]
	if name.ElementType != document.ElementInput || !name.Required {
		t.Fatalf("patient_name mapping: %+v", name)
	}
	if name.MaxLength == nil || *name.MaxLength != 120 || name.Pattern == "" {
		t.Fatalf("patient_name constraints not mapped: %+v", name)
	}

	history := byKey["history"]
	if history.ElementType != document.ElementTextarea {
		t.Fatalf("long string must map to textarea, got %s", history.ElementType)
	}
	if history.HelpText != "Presenting history" {
		t.Fatalf("description must carry into help text: %+v", history)
	}

	weight := byKey["weight_kg"]
	if weight.ElementType != document.ElementNumeric {
		t.Fatalf("number must map to numeric, got %s", weight.ElementType)
	}
	if weight.Min == nil || *weight.Min != 0 || weight.Max == nil || *weight.Max != 500 {
		t.Fatalf("numeric bounds not mapped: %+v", weight)
	}

	beds := byKey["bed_count"]
	if beds.ElementType != document.ElementNumeric || beds.Step == nil || *beds.Step != 1 {
		t.Fatalf("integer must map to numeric with unit step: %+v", beds)
	}

	if byKey["consent"].ElementType != document.ElementCheckbox {
		t.Fatalf("boolean must map to checkbox")
	}
	if byKey["admitted_at"].ElementType != document.ElementDatetime {
		t.Fatalf("date-time must map to datetime")
	}

	ward := byKey["ward"]
	if ward.ElementType != document.ElementSelect || len(ward.Options) != 2 {
		t.Fatalf("enum must map to select, got %+v", ward)
	}
	if ward.Label != "Ward" {
		t.Fatalf("label not derived from key: %q", ward.Label)
	}
}

func TestFromOpenAPI_FirstOperationWhenUnnamed(t *testing.T) {
	record, err := importer.FromOpenAPI(context.Background(), []byte(admissionSpec), "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if record.Name != "Admission Intake" {
		t.Fatalf("unexpected operation picked: %q", record.Name)
	}
}

func TestFromOpenAPI_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := importer.FromOpenAPI(ctx, nil, ""); err == nil {
		t.Fatalf("empty payload must error")
	}
	if _, err := importer.FromOpenAPI(ctx, []byte(admissionSpec), "missingOp"); err == nil {
		t.Fatalf("unknown operation must error")
	}
}

func TestFromOpenAPI_MultiByteFieldName(t *testing.T) {
	doc := `{
  "openapi": "3.0.0",
  "info": {"title": "Intag", "version": "1"},
  "paths": {
    "/intag": {
      "post": {
        "operationId": "skapaIntag",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "ålder": {"type": "integer"}
                }
              }
            }
          }
        }
      }
    }
  }
}`

	record, err := importer.FromOpenAPI(context.Background(), []byte(doc), "skapaIntag")
	if err != nil {
		t.Fatalf("FromOpenAPI: %v", err)
	}

	elements := document.ExtractElements(record.Content)
	if len(elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(elements))
	}
	if elements[0].Label != "Ålder" {
		t.Errorf("label = %q, want %q", elements[0].Label, "Ålder")
	}
}
