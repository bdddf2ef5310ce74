package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if !cfg.IsDev() {
		t.Errorf("IsDev() = false, want true for default env %q", cfg.Env)
	}
	if cfg.UsesPostgres() {
		t.Errorf("UsesPostgres() = true without DATABASE_URL")
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Errorf("CORSOrigins is empty, want default origin")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/notegen")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.IsDev() {
		t.Errorf("IsDev() = true with ENV=production")
	}
	if !cfg.UsesPostgres() {
		t.Errorf("UsesPostgres() = false with DATABASE_URL set")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 origins", cfg.CORSOrigins)
	}
}
