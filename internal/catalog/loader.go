package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type fieldsDocument struct {
	Fields []FieldDef `yaml:"fields"`
}

type examDocument struct {
	Sections []ExamSection `yaml:"sections"`
}

// LoadFields parses the field catalog entries from every *.yaml document in
// fsys. Documents without a top-level "fields" key are skipped. Entries must
// declare an id and an action type; duplicate ids are rejected.
func LoadFields(fsys fs.FS) ([]FieldDef, error) {
	var fields []FieldDef
	seen := make(map[string]string)

	err := walkYAML(fsys, func(path string, data []byte) error {
		var doc fieldsDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("catalog: parse %s: %w", path, err)
		}
		for _, field := range doc.Fields {
			id := strings.TrimSpace(field.ID)
			if id == "" {
				return fmt.Errorf("catalog: file %s declares a field without an id", path)
			}
			if field.Actions.Type == "" {
				return fmt.Errorf("catalog: field %q declares no action type (file %s)", id, path)
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("catalog: duplicate field %q (files %s, %s)", id, prev, path)
			}
			seen[id] = path
			fields = append(fields, field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// LoadExamSections parses the physical-exam checklist sections from every
// *.yaml document in fsys. Documents without a top-level "sections" key are
// skipped.
func LoadExamSections(fsys fs.FS) ([]ExamSection, error) {
	var sections []ExamSection

	err := walkYAML(fsys, func(path string, data []byte) error {
		var doc examDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("catalog: parse %s: %w", path, err)
		}
		for _, section := range doc.Sections {
			if strings.TrimSpace(section.Name) == "" {
				return fmt.Errorf("catalog: file %s declares a section without a name", path)
			}
			if len(section.Findings) == 0 {
				return fmt.Errorf("catalog: section %q declares no findings (file %s)", section.Name, path)
			}
			sections = append(sections, section)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func walkYAML(fsys fs.FS, visit func(path string, data []byte) error) error {
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		return visit(path, data)
	})
}

var (
	defaultOnce     sync.Once
	defaultFields   []FieldDef
	defaultSections []ExamSection
	defaultErr      error
)

func loadDefaults() {
	defaultFields, defaultErr = LoadFields(dataFS)
	if defaultErr != nil {
		return
	}
	defaultSections, defaultErr = LoadExamSections(dataFS)
}

// DefaultFields returns the embedded clinical field catalog.
func DefaultFields() ([]FieldDef, error) {
	defaultOnce.Do(loadDefaults)
	return defaultFields, defaultErr
}

// DefaultExamSections returns the embedded physical-exam checklist.
func DefaultExamSections() ([]ExamSection, error) {
	defaultOnce.Do(loadDefaults)
	return defaultSections, defaultErr
}
