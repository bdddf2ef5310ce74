package document

import (
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tree := Doc(
		Heading(1, Text("Admission Note", Mark{Type: MarkBold})),
		Paragraph(
			Text("Referred via "),
			Text("ED", Mark{Type: MarkLink, Attrs: map[string]any{"href": "https://example.org/ed"}}),
			HardBreak(),
			Element(FormElement{
				ElementType: ElementSelect,
				Label:       "Triage Category",
				ElementKey:  "triage",
				Options: []SelectOption{
					{Label: "Immediate", Value: "1"},
					{Label: "Urgent", Value: "2"},
				},
			}),
		),
		&Node{Type: KindTable, Content: []*Node{
			{Type: KindTableRow, Content: []*Node{
				{Type: KindTableHeaderCell, Content: []*Node{Paragraph(Text("Vitals"))}},
				{Type: KindTableCell, Content: []*Node{Paragraph(
					Element(FormElement{ElementType: ElementNumeric, Label: "Temp", ElementKey: "temp"}),
				)}},
			}},
		}},
		&Node{Type: KindImage, Attrs: map[string]any{"src": "https://example.org/xray.png"}},
	)

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !Equal(tree, decoded) {
		round, _ := Marshal(decoded)
		t.Fatalf("round trip mismatch:\n in: %s\nout: %s", data, round)
	}
}

func TestRoundTrip_WireShapeStable(t *testing.T) {
	// Content arriving over the wire must survive decode/encode byte-compatibly
	// once whitespace is normalized.
	raw := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","marks":[{"type":"italic"}],"text":"hello"}]}]}`
	decoded, err := Unmarshal([]byte(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("wire shape changed:\n in: %s\nout: %s", raw, out)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		tree    *Node
		wantErr bool
	}{
		{"valid", sampleTree(), false},
		{"nil tree", nil, true},
		{"non-doc root", Paragraph(Text("x")), true},
		{"nested doc", Doc(Doc()), true},
		{"leaf with children", Doc(&Node{Type: KindText, Text: "x", Content: []*Node{Paragraph()}}), true},
		{"heading level out of range", Doc(Heading(7, Text("x"))), true},
		{"structural node with elementKey", Doc(&Node{Type: KindParagraph, Attrs: map[string]any{"elementKey": "x"}}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.tree)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestElementOf_RoundTripsTypedAttrs(t *testing.T) {
	min := 35.0
	max := 43.0
	step := 0.1
	groupID := "g-vitals"
	el := FormElement{
		ElementType: ElementNumeric,
		Label:       "Temperature",
		ElementKey:  "temp",
		Required:    true,
		GroupID:     &groupID,
		DataField:   "vitals_temperature",
		DataBinding: &DataBinding{Type: BindingAPI, APIEndpoint: "/api/vitals", DataPath: "latestVitals.temperature"},
		Min:         &min,
		Max:         &max,
		Step:        &step,
	}

	decoded, ok := ElementOf(Element(el))
	if !ok {
		t.Fatalf("expected element decode")
	}
	if decoded.Label != el.Label || decoded.ElementKey != el.ElementKey || !decoded.Required {
		t.Fatalf("scalar attrs lost: %+v", decoded)
	}
	if decoded.GroupID == nil || *decoded.GroupID != groupID {
		t.Fatalf("group_id lost: %+v", decoded.GroupID)
	}
	if decoded.DataBinding == nil || decoded.DataBinding.DataPath != "latestVitals.temperature" {
		t.Fatalf("data_binding lost: %+v", decoded.DataBinding)
	}
	if decoded.Min == nil || *decoded.Min != min || decoded.Step == nil || *decoded.Step != step {
		t.Fatalf("numeric constraints lost: %+v", decoded)
	}
}
