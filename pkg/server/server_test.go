package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-notegen/pkg/document"
	"github.com/goliatone/go-notegen/pkg/registry"
	"github.com/goliatone/go-notegen/pkg/render"
	"github.com/goliatone/go-notegen/pkg/renderers/editor"
	"github.com/goliatone/go-notegen/pkg/renderers/inline"
	"github.com/goliatone/go-notegen/pkg/renderers/printhtml"
	"github.com/goliatone/go-notegen/pkg/resolve"
	"github.com/goliatone/go-notegen/pkg/store/memory"
	"github.com/goliatone/go-notegen/pkg/template"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	templates := memory.NewTemplateStore()
	notes := memory.NewNoteStore()
	resolver := resolve.New(registry.MustDefault(), nil)
	service := template.NewService(templates, notes, resolver)

	renderers := render.NewRegistry()
	renderers.MustRegister(editor.New())
	renderers.MustRegister(inline.New())
	static, err := printhtml.New()
	if err != nil {
		t.Fatalf("printhtml.New() error = %v", err)
	}
	renderers.MustRegister(static)

	srv, err := New(service, templates, notes, renderers)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func sampleTemplate() template.Template {
	return template.Template{
		Name: "Ward Round",
		Content: document.Doc(
			document.Heading(1, document.Text("Ward Round")),
			document.Paragraph(document.Element(document.FormElement{
				ElementType: document.ElementInput,
				ElementKey:  "patient_name",
				Label:       "Patient Name",
			})),
		),
	}
}

func saveTemplate(t *testing.T, srv *Server) template.Template {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/templates", sampleTemplate())
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /templates status = %d, body %s", rec.Code, rec.Body.String())
	}
	var saved template.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode saved template: %v", err)
	}
	return saved
}

func TestServer_TemplateLifecycle(t *testing.T) {
	srv := newTestServer(t)
	saved := saveTemplate(t, srv)

	if saved.ID == "" {
		t.Fatalf("saved template has no id")
	}
	if len(saved.VersionHistory) != 1 {
		t.Fatalf("VersionHistory length = %d, want 1", len(saved.VersionHistory))
	}

	rec := doJSON(t, srv, http.MethodGet, "/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /templates status = %d", rec.Code)
	}
	var summaries []template.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "Ward Round" {
		t.Errorf("summaries = %+v, want one Ward Round entry", summaries)
	}

	rec = doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /templates/:id status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/templates/"+saved.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want 404", rec.Code)
	}
}

func TestServer_RenderModes(t *testing.T) {
	srv := newTestServer(t)
	saved := saveTemplate(t, srv)

	cases := []struct {
		mode string
		want string
	}{
		{"edit", `data-element-key="patient_name"`},
		{"readOnlyInline", "ng-badge"},
		{"staticHtml", "<!DOCTYPE html>"},
	}
	for _, tc := range cases {
		rec := doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID+"/render?mode="+tc.mode, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("mode %s status = %d, body %s", tc.mode, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Errorf("mode %s output missing %q:\n%s", tc.mode, tc.want, rec.Body.String())
		}
	}

	rec := doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID+"/render?mode=pdf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown mode status = %d, want 400", rec.Code)
	}
}

func TestServer_RenderDefaultsToEdit(t *testing.T) {
	srv := newTestServer(t)
	saved := saveTemplate(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID+"/render", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<input") {
		t.Errorf("default mode output is not editable:\n%s", rec.Body.String())
	}
}

func TestServer_NoteLifecycle(t *testing.T) {
	srv := newTestServer(t)
	saved := saveTemplate(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/templates/"+saved.ID+"/notes", createNoteRequest{
		ConsultationData: map[string]any{"patient_name": "Jordan Blake"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST notes status = %d, body %s", rec.Code, rec.Body.String())
	}
	var note template.ConsultationNote
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("decode note: %v", err)
	}
	if note.Data["patient_name"] != "Jordan Blake" {
		t.Errorf("note data = %v, want patient_name set", note.Data)
	}
	if note.TemplateVersionID != 1 {
		t.Errorf("TemplateVersionID = %d, want 1", note.TemplateVersionID)
	}

	rec = doJSON(t, srv, http.MethodGet, "/notes/"+note.ID+"/render?mode=readOnlyInline", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("render note status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Jordan Blake") {
		t.Errorf("note render missing filled value:\n%s", rec.Body.String())
	}

	note.Data["diagnosis"] = "stable"
	rec = doJSON(t, srv, http.MethodPut, "/notes/"+note.ID, note)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT note status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated template.ConsultationNote
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated note: %v", err)
	}
	if len(updated.VersionHistory) != 2 {
		t.Errorf("note VersionHistory length = %d, want 2", len(updated.VersionHistory))
	}

	rec = doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID+"/notes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list notes status = %d", rec.Code)
	}
	var notes []template.ConsultationNote
	if err := json.Unmarshal(rec.Body.Bytes(), &notes); err != nil {
		t.Fatalf("decode notes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("notes length = %d, want 1", len(notes))
	}
}

func TestServer_VersionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	saved := saveTemplate(t, srv)

	saved.Name = "Ward Round v2"
	rec := doJSON(t, srv, http.MethodPost, "/templates", saved)
	if rec.Code != http.StatusOK {
		t.Fatalf("second save status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/templates/"+saved.ID+"/versions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("versions status = %d", rec.Code)
	}
	var history []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}

	rec = doJSON(t, srv, http.MethodPost, "/templates/"+saved.ID+"/versions/2/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Ward Round") {
		t.Errorf("restore body missing snapshot name:\n%s", rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/templates/"+saved.ID+"/versions/9/restore", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("restore missing version status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/templates/"+saved.ID+"/versions/two/restore", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("restore bad version status = %d, want 400", rec.Code)
	}
}

func TestServer_StaleSelectionConflict(t *testing.T) {
	srv := newTestServer(t)
	first := saveTemplate(t, srv)

	second := sampleTemplate()
	second.Name = "Discharge"
	rec := doJSON(t, srv, http.MethodPost, "/templates", second)
	if rec.Code != http.StatusOK {
		t.Fatalf("save second template status = %d", rec.Code)
	}
	var other template.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &other); err != nil {
		t.Fatalf("decode second template: %v", err)
	}

	rec = doJSON(t, srv, http.MethodPost, "/templates/"+other.ID+"/select", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("select status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/templates/"+first.ID+"/resolve", resolveRequest{})
	if rec.Code != http.StatusConflict {
		t.Errorf("resolve stale selection status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/templates/"+other.ID+"/resolve", resolveRequest{})
	if rec.Code != http.StatusOK {
		t.Errorf("resolve current selection status = %d, want 200", rec.Code)
	}
}
