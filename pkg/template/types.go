// Package template holds the domain records for note templates and
// consultation notes, the persistence contracts they flow through, and the
// lifecycle service that ties tree content, versioning and auto-fill
// together.
package template

import (
	"time"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/version"
)

// Type distinguishes regular templates from ones that open a guided
// sub-flow when selected.
type Type string

const (
	TypeNormal             Type = "normal"
	TypeNavigationCallback Type = "navigation_callback"
)

// Status marks a record as listed or retired.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Template is an authored note layout: a content tree with embedded form
// elements, display groups and an append-only edit history.
type Template struct {
	ID             string           `json:"id"`
	Name           string           `json:"templateName"`
	Description    string           `json:"templateDescription"`
	Type           Type             `json:"templateType"`
	Content        *document.Node   `json:"templateContent"`
	Groups         []document.Group `json:"groups"`
	VersionHistory []version.Entry  `json:"versionHistory"`
	Status         Status           `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ConsultationNote is one filled-out instance of a template. Content is an
// independent copy of the template tree taken at creation time, so later
// template edits never alter existing notes.
type ConsultationNote struct {
	ID                string          `json:"id"`
	TemplateID        string          `json:"templateId"`
	TemplateVersionID int             `json:"templateVersionId,omitempty"`
	Data              map[string]any  `json:"consultationData"`
	Content           *document.Node  `json:"noteContent"`
	VersionHistory    []version.Entry `json:"versionHistory"`
	Status            Status          `json:"status"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Summary is the listing projection of a template.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"templateName"`
	Description string    `json:"templateDescription"`
	Type        Type      `json:"templateType"`
	Status      Status    `json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
