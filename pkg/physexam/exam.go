// Package physexam models the physical-examination checklist flow: named
// body-system sections with fixed finding lists, a three-state toggle per
// finding, and the mapping of section summaries back onto form elements.
package physexam

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-notegen/internal/catalog"
)

// Status is the toggle state of one finding.
type Status = catalog.FindingStatus

const (
	StatusUnset    = catalog.FindingUnset
	StatusNormal   = catalog.FindingNormal
	StatusAbnormal = catalog.FindingAbnormal
)

// NextStatus advances the toggle cycle: unset -> normal -> abnormal -> unset.
func NextStatus(s Status) Status {
	switch s {
	case StatusUnset:
		return StatusNormal
	case StatusNormal:
		return StatusAbnormal
	default:
		return StatusUnset
	}
}

// Finding is one checklist item and its current state.
type Finding struct {
	Name   string
	Status Status
}

// Section is one body-system checklist with its element-mapping metadata.
type Section struct {
	Name      string
	DataField string
	Aliases   []string
	Findings  []Finding
}

// Exam is one in-progress checklist session.
type Exam struct {
	Sections []Section
}

// NewExam builds a fresh checklist from the embedded section catalog.
func NewExam() (*Exam, error) {
	defs, err := catalog.DefaultExamSections()
	if err != nil {
		return nil, fmt.Errorf("physexam: load sections: %w", err)
	}
	exam := &Exam{Sections: make([]Section, 0, len(defs))}
	for _, def := range defs {
		section := Section{
			Name:      def.Name,
			DataField: def.DataField,
			Aliases:   append([]string(nil), def.Aliases...),
			Findings:  make([]Finding, 0, len(def.Findings)),
		}
		for _, name := range def.Findings {
			section.Findings = append(section.Findings, Finding{Name: name})
		}
		exam.Sections = append(exam.Sections, section)
	}
	return exam, nil
}

// Toggle advances the named finding's status through the cycle. Unknown
// section or finding names are no-ops.
func (e *Exam) Toggle(sectionName, findingName string) {
	for si := range e.Sections {
		if !strings.EqualFold(e.Sections[si].Name, sectionName) {
			continue
		}
		for fi := range e.Sections[si].Findings {
			if strings.EqualFold(e.Sections[si].Findings[fi].Name, findingName) {
				e.Sections[si].Findings[fi].Status = NextStatus(e.Sections[si].Findings[fi].Status)
				return
			}
		}
		return
	}
}

// Section returns the named section, matched case-insensitively.
func (e *Exam) Section(name string) (*Section, bool) {
	for i := range e.Sections {
		if strings.EqualFold(e.Sections[i].Name, name) {
			return &e.Sections[i], true
		}
	}
	return nil, false
}

// Summarize renders a section's selected findings as one line of text:
// "finding (status), finding (status)". Unset findings are omitted; the
// empty string means nothing was selected.
func Summarize(section Section) string {
	var parts []string
	for _, finding := range section.Findings {
		if finding.Status == StatusUnset {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", finding.Name, finding.Status))
	}
	return strings.Join(parts, ", ")
}
