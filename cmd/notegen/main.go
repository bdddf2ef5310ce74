package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	notegen "github.com/goliatone/go-notegen"
	"github.com/goliatone/go-notegen/internal/config"
	"github.com/goliatone/go-notegen/internal/db"
	"github.com/goliatone/go-notegen/pkg/fill"
	"github.com/goliatone/go-notegen/pkg/importer"
	"github.com/goliatone/go-notegen/pkg/registry"
	"github.com/goliatone/go-notegen/pkg/render"
	"github.com/goliatone/go-notegen/pkg/resolve"
	"github.com/goliatone/go-notegen/pkg/server"
	"github.com/goliatone/go-notegen/pkg/store/memory"
	"github.com/goliatone/go-notegen/pkg/store/postgres"
	"github.com/goliatone/go-notegen/pkg/template"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notegen",
		Short: "Consultation note template server and tools",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(fillCmd())
	rootCmd.AddCommand(versionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()

	var templates template.TemplateStore
	var notes template.NoteStore
	if cfg.UsesPostgres() {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
		templates = postgres.NewTemplateStore(pool)
		notes = postgres.NewNoteStore(pool)
	} else {
		logger.Info().Msg("no database configured, using in-memory stores")
		templates = memory.NewTemplateStore()
		notes = memory.NewNoteStore()
	}

	resolver := resolve.New(registry.MustDefault(), nil, resolve.WithLogger(logger))
	service := template.NewService(templates, notes, resolver, template.WithLogger(logger))

	renderers, err := notegen.DefaultRenderers()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build renderers")
	}

	srv, err := server.New(service, templates, notes, renderers,
		server.WithLogger(logger),
		server.WithCORSOrigins(cfg.CORSOrigins),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	go func() {
		if err := srv.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.UsesPostgres() {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if _, err := pool.Exec(ctx, postgres.Migration); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Migration applied.")
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	var mode, output, title, themeName, variant string
	cmd := &cobra.Command{
		Use:   "render <template.json>",
		Short: "Render a template file to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readTemplate(args[0])
			if err != nil {
				return err
			}

			out, err := notegen.RenderHTML(cmd.Context(), record.Content, mode, render.RenderOptions{
				Title:   orDefault(title, record.Name),
				Groups:  record.Groups,
				Theme:   themeName,
				Variant: variant,
			})
			if err != nil {
				return err
			}
			return writeOutput(output, out)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", notegen.ModeEdit, "output mode: edit, readOnlyInline or staticHtml")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&title, "title", "", "document title override")
	cmd.Flags().StringVar(&themeName, "theme", "", "theme name for static output")
	cmd.Flags().StringVar(&variant, "variant", "", "theme variant")
	return cmd
}

func importCmd() *cobra.Command {
	var operationID, output string
	cmd := &cobra.Command{
		Use:   "import <openapi.json>",
		Short: "Build a template from an OpenAPI operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			record, err := importer.FromOpenAPI(cmd.Context(), raw, operationID)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("encode template: %w", err)
			}
			return writeOutput(output, append(out, '\n'))
		},
	}
	cmd.Flags().StringVar(&operationID, "operation", "", "operation ID (first operation with a request body if empty)")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")
	return cmd
}

func fillCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "fill <template.json>",
		Short: "Fill a template's form elements interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readTemplate(args[0])
			if err != nil {
				return err
			}

			session, err := fill.New()
			if err != nil {
				return err
			}
			values, err := session.Run(cmd.Context(), record.Content, nil)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(values, "", "  ")
			if err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			return writeOutput(output, append(out, '\n'))
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")
	return cmd
}

func versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <template.json>",
		Short: "List a template file's version history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readTemplate(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%-8s %-20s %s\n", "VERSION", "TIMESTAMP", "CHANGED")
			for _, entry := range record.VersionHistory {
				changed := "-"
				if len(entry.ChangedFields) > 0 {
					changed = fmt.Sprint(entry.ChangedFields)
				}
				fmt.Printf("%-8d %-20s %s\n", entry.Version, entry.Timestamp.Format(time.RFC3339), changed)
			}
			return nil
		},
	}
}

func readTemplate(path string) (template.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return template.Template{}, fmt.Errorf("read template: %w", err)
	}
	return template.Decode(raw)
}

func writeOutput(path string, out []byte) error {
	if path == "" {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Written to %s\n", path)
	return nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
