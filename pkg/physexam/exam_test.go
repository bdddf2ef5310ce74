package physexam

import (
	"testing"
)

func TestNextStatus_Cycles(t *testing.T) {
	if got := NextStatus(StatusUnset); got != StatusNormal {
		t.Fatalf("unset -> %q", got)
	}
	if got := NextStatus(StatusNormal); got != StatusAbnormal {
		t.Fatalf("normal -> %q", got)
	}
	if got := NextStatus(StatusAbnormal); got != StatusUnset {
		t.Fatalf("abnormal -> %q", got)
	}
}

func TestToggle(t *testing.T) {
	exam, err := NewExam()
	if err != nil {
		t.Fatalf("NewExam: %v", err)
	}

	exam.Toggle("Cardiovascular", "Murmur")
	section, ok := exam.Section("Cardiovascular")
	if !ok {
		t.Fatalf("expected Cardiovascular section")
	}
	var status Status
	for _, finding := range section.Findings {
		if finding.Name == "Murmur" {
			status = finding.Status
		}
	}
	if status != StatusNormal {
		t.Fatalf("first toggle should set normal, got %q", status)
	}

	exam.Toggle("cardiovascular", "murmur") // case-insensitive
	for _, finding := range section.Findings {
		if finding.Name == "Murmur" && finding.Status != StatusAbnormal {
			t.Fatalf("second toggle should set abnormal, got %q", finding.Status)
		}
	}

	exam.Toggle("Nope", "Murmur")       // unknown section: no-op
	exam.Toggle("Cardiovascular", "zz") // unknown finding: no-op
}

func TestSummarize(t *testing.T) {
	section := Section{
		Name: "Cardiovascular",
		Findings: []Finding{
			{Name: "S1 S2 heard", Status: StatusNormal},
			{Name: "Murmur", Status: StatusAbnormal},
			{Name: "Gallop"},
		},
	}
	want := "S1 S2 heard (normal), Murmur (abnormal)"
	if got := Summarize(section); got != want {
		t.Fatalf("Summarize = %q, want %q", got, want)
	}

	if got := Summarize(Section{Name: "Empty"}); got != "" {
		t.Fatalf("empty section should summarize to %q, got %q", "", got)
	}
}
