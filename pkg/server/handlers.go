package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/render"
	"github.com/goliatone/go-notegen/pkg/resolve"
	"github.com/goliatone/go-notegen/pkg/template"
)

// modeRenderers maps the public render mode names to registry entries.
var modeRenderers = map[string]string{
	"edit":           "editor",
	"readOnlyInline": "inline",
	"staticHtml":     "printhtml",
}

type clinicalContextRequest struct {
	PatientID       string         `json:"patientId"`
	AdmissionID     string         `json:"admissionId"`
	ClinicianID     string         `json:"clinicianId"`
	ClinicianName   string         `json:"clinicianName"`
	AppointmentDate string         `json:"appointmentDate"`
	AdmissionDate   string         `json:"admissionDate"`
	Extra           map[string]any `json:"extra"`
}

func (r clinicalContextRequest) toContext() resolve.ClinicalContext {
	return resolve.ClinicalContext{
		PatientID:       r.PatientID,
		AdmissionID:     r.AdmissionID,
		ClinicianID:     r.ClinicianID,
		ClinicianName:   r.ClinicianName,
		AppointmentDate: r.AppointmentDate,
		AdmissionDate:   r.AdmissionDate,
		Extra:           r.Extra,
	}
}

type createNoteRequest struct {
	ClinicalContext  clinicalContextRequest `json:"clinicalContext"`
	ConsultationData map[string]any         `json:"consultationData"`
}

type resolveRequest struct {
	ClinicalContext clinicalContextRequest `json:"clinicalContext"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) saveTemplate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body: "+err.Error())
	}
	record, err := template.Decode(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	saved, err := s.service.SaveTemplate(c.Request().Context(), record)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (s *Server) listTemplates(c echo.Context) error {
	summaries, err := s.templates.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) listActiveTemplates(c echo.Context) error {
	summaries, err := s.templates.ListActive(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) viewTemplate(c echo.Context) error {
	record, err := s.templates.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) deleteTemplate(c echo.Context) error {
	if err := s.templates.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) renderTemplate(c echo.Context) error {
	record, err := s.templates.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return s.renderTree(c, record.Content, render.RenderOptions{
		Title:   record.Name,
		Groups:  record.Groups,
		Theme:   c.QueryParam("theme"),
		Variant: c.QueryParam("variant"),
	})
}

func (s *Server) renderNote(c echo.Context) error {
	record, err := s.notes.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return s.renderTree(c, record.Content, render.RenderOptions{
		Title:   c.QueryParam("title"),
		Values:  record.Data,
		Theme:   c.QueryParam("theme"),
		Variant: c.QueryParam("variant"),
	})
}

func (s *Server) renderTree(c echo.Context, doc *document.Node, options render.RenderOptions) error {
	mode := c.QueryParam("mode")
	if mode == "" {
		mode = "edit"
	}
	name, ok := modeRenderers[mode]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown render mode "+strconv.Quote(mode))
	}
	renderer, err := s.renderers.Get(name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotImplemented, err.Error())
	}

	out, err := renderer.Render(c.Request().Context(), doc, options)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, renderer.ContentType(), out)
}

func (s *Server) listVersions(c echo.Context) error {
	record, err := s.templates.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record.VersionHistory)
}

func (s *Server) restoreVersion(c echo.Context) error {
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "version must be an integer")
	}
	snapshot, err := s.service.RestoreVersion(c.Request().Context(), c.Param("id"), versionNumber)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (s *Server) resolveTemplate(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	values, err := s.service.ResolveSelection(c.Request().Context(), c.Param("id"), req.ClinicalContext.toContext())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, values)
}

func (s *Server) selectTemplate(c echo.Context) error {
	if _, err := s.templates.View(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	s.service.SelectTemplate(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) createNote(c echo.Context) error {
	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	note, err := s.service.CreateNote(c.Request().Context(), c.Param("id"), req.ClinicalContext.toContext(), req.ConsultationData)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, note)
}

func (s *Server) listNotes(c echo.Context) error {
	notes, err := s.notes.ListByTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (s *Server) viewNote(c echo.Context) error {
	record, err := s.notes.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) saveNote(c echo.Context) error {
	var record template.ConsultationNote
	if err := c.Bind(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	record.ID = c.Param("id")

	saved, err := s.service.SaveNote(c.Request().Context(), record)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, saved)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, template.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, template.ErrStaleSelection):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
