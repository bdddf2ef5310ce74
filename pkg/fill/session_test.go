package fill_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/fill"
)

// scriptDriver replays canned answers and records the prompts it saw.
type scriptDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	texts    []string

	prompts []string
}

func (d *scriptDriver) Input(_ context.Context, cfg fill.InputConfig) (string, error) {
	d.prompts = append(d.prompts, "input:"+cfg.Message)
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptDriver) Confirm(_ context.Context, cfg fill.ConfirmConfig) (bool, error) {
	d.prompts = append(d.prompts, "confirm:"+cfg.Message)
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg fill.SelectConfig) (int, error) {
	d.prompts = append(d.prompts, "select:"+cfg.Message)
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func (d *scriptDriver) TextArea(_ context.Context, cfg fill.TextAreaConfig) (string, error) {
	d.prompts = append(d.prompts, "textarea:"+cfg.Message)
	answer := d.texts[0]
	d.texts = d.texts[1:]
	return answer, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.prompts = append(d.prompts, "info:"+msg)
	return nil
}

func fillTree() *document.Node {
	return document.Doc(
		document.Paragraph(document.Element(document.FormElement{
			ElementType: document.ElementInput,
			ElementKey:  "patient_name",
			Label:       "Patient Name",
		})),
		document.Paragraph(document.Element(document.FormElement{
			ElementType: document.ElementNumeric,
			ElementKey:  "weight",
			Label:       "Weight",
		})),
		document.Paragraph(document.Element(document.FormElement{
			ElementType: document.ElementCheckbox,
			ElementKey:  "consent",
			Label:       "Consent",
		})),
		document.Paragraph(document.Element(document.FormElement{
			ElementType: document.ElementSelect,
			ElementKey:  "ward",
			Label:       "Ward",
			Options: []document.SelectOption{
				{Label: "ICU", Value: "icu"},
				{Label: "General", Value: "general"},
			},
		})),
		document.Paragraph(document.Element(document.FormElement{
			ElementType: document.ElementTextarea,
			ElementKey:  "plan",
			Label:       "Plan",
		})),
	)
}

func TestRun_PromptsInDocumentOrder(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"Jane Doe", "72.5"},
		confirms: []bool{true},
		selects:  []int{1},
		texts:    []string{"monitor overnight"},
	}

	var order []string
	session, err := fill.New(
		fill.WithPromptDriver(driver),
		fill.WithOnDataChange(func(key string, _ any) { order = append(order, key) }),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	values, err := session.Run(context.Background(), fillTree(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := map[string]any{
		"patient_name": "Jane Doe",
		"weight":       72.5,
		"consent":      true,
		"ward":         "general",
		"plan":         "monitor overnight",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"patient_name", "weight", "consent", "ward", "plan"}, order); diff != "" {
		t.Fatalf("write-through order mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ExistingValuesBecomeDefaults(t *testing.T) {
	tree := document.Doc(document.Paragraph(document.Element(document.FormElement{
		ElementType: document.ElementInput,
		ElementKey:  "patient_name",
		Label:       "Patient Name",
	})))

	driver := &scriptDriver{inputs: []string{"Jane Doe"}}
	var sawDefault string
	captured := &defaultCapturingDriver{scriptDriver: driver, onInput: func(cfg fill.InputConfig) {
		sawDefault = cfg.Default
	}}

	session, err := fill.New(fill.WithPromptDriver(captured))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := session.Run(context.Background(), tree, map[string]any{"patient_name": "J. Doe"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sawDefault != "J. Doe" {
		t.Fatalf("existing value not offered as default, got %q", sawDefault)
	}
}

type defaultCapturingDriver struct {
	*scriptDriver
	onInput func(fill.InputConfig)
}

func (d *defaultCapturingDriver) Input(ctx context.Context, cfg fill.InputConfig) (string, error) {
	d.onInput(cfg)
	return d.scriptDriver.Input(ctx, cfg)
}

func TestRun_ModelOpenFieldLaunchesExamChecklist(t *testing.T) {
	tree := document.Doc(
		document.Paragraph(document.Element(document.FormElement{
			ElementType: document.ElementTextarea,
			ElementKey:  "cvs_exam",
			Label:       "Cardiovascular",
			DataField:   "physical_examination_cardiovascular",
		})),
	)

	// One select per finding across all six sections; pick "abnormal" for
	// the first cardiovascular finding, skip everything else.
	driver := &examDriver{}

	session, err := fill.New(fill.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	values, err := session.Run(context.Background(), tree, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := values["cvs_exam"].(string)
	if got == "" {
		t.Fatalf("cardiovascular summary missing: %v", values)
	}
	if !strings.Contains(got, "(abnormal)") {
		t.Fatalf("summary %q must carry the abnormal finding", got)
	}
}

// examDriver skips every finding except the first one offered under the
// cardiovascular section header, which it marks abnormal.
type examDriver struct {
	inCardio     bool
	pickedCardio bool
}

func (d *examDriver) Input(context.Context, fill.InputConfig) (string, error) { return "", nil }

func (d *examDriver) Confirm(context.Context, fill.ConfirmConfig) (bool, error) { return false, nil }

func (d *examDriver) Select(_ context.Context, cfg fill.SelectConfig) (int, error) {
	if d.inCardio && !d.pickedCardio {
		d.pickedCardio = true
		return 2, nil // abnormal
	}
	return 0, nil // skip
}

func (d *examDriver) TextArea(context.Context, fill.TextAreaConfig) (string, error) { return "", nil }

func (d *examDriver) Info(_ context.Context, msg string) error {
	d.inCardio = strings.Contains(strings.ToLower(msg), "cardiovascular")
	return nil
}
