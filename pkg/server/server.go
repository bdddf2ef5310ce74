// Package server exposes the template and note lifecycle over HTTP. Render
// endpoints dispatch to the renderer registry by output mode, so every mode
// the registry knows is reachable without new routes.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-notegen/pkg/render"
	"github.com/goliatone/go-notegen/pkg/template"
)

// Option configures the server.
type Option func(*Server)

// WithLogger attaches a structured logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// Server routes HTTP requests to the template service and renderer registry.
type Server struct {
	echo        *echo.Echo
	service     *template.Service
	templates   template.TemplateStore
	notes       template.NoteStore
	renderers   *render.Registry
	log         zerolog.Logger
	corsOrigins []string
}

// New wires routes and middleware. The registry decides which render modes
// exist; the server only translates mode names to renderer names.
func New(service *template.Service, templates template.TemplateStore, notes template.NoteStore, renderers *render.Registry, options ...Option) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("server: service is required")
	}
	if templates == nil || notes == nil {
		return nil, fmt.Errorf("server: stores are required")
	}
	if renderers == nil {
		return nil, fmt.Errorf("server: renderer registry is required")
	}

	s := &Server{
		echo:      echo.New(),
		service:   service,
		templates: templates,
		notes:     notes,
		renderers: renderers,
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Recover())
	s.echo.Use(Logger(s.log))
	if len(s.corsOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.corsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		}))
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/health", s.health)

	e.POST("/templates", s.saveTemplate)
	e.GET("/templates", s.listTemplates)
	e.GET("/templates/active", s.listActiveTemplates)
	e.GET("/templates/:id", s.viewTemplate)
	e.DELETE("/templates/:id", s.deleteTemplate)
	e.GET("/templates/:id/render", s.renderTemplate)
	e.GET("/templates/:id/versions", s.listVersions)
	e.POST("/templates/:id/versions/:version/restore", s.restoreVersion)
	e.POST("/templates/:id/resolve", s.resolveTemplate)
	e.POST("/templates/:id/select", s.selectTemplate)
	e.POST("/templates/:id/notes", s.createNote)
	e.GET("/templates/:id/notes", s.listNotes)

	e.GET("/notes/:id", s.viewNote)
	e.PUT("/notes/:id", s.saveNote)
	e.GET("/notes/:id/render", s.renderNote)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on addr until Shutdown or failure.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("server listening")
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
