package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "3001" {
		t.Errorf("expected port 3001, got %s", cfg.Port)
	}
	if cfg.Download.MaxConcurrent != 3 {
		t.Errorf("expected max_concurrent 3, got %d", cfg.Download.MaxConcurrent)
	}
	if cfg.Download.Route != "/downloads" {
		t.Errorf("expected route /downloads, got %s", cfg.Download.Route)
	}
	if cfg.Tools.SpotDL != "spotdl" || cfg.Tools.YtDlp != "yt-dlp" {
		t.Errorf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Server.ShutdownGrace != 5*time.Second {
		t.Errorf("expected 5s shutdown grace, got %s", cfg.Server.ShutdownGrace)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.Store.Driver)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
download:
  out_dir: /srv/music
  max_concurrent: 5
tools:
  ytdlp: /usr/local/bin/yt-dlp
server:
  shutdown_grace: 10s
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Download.OutDir != "/srv/music" {
		t.Errorf("expected out_dir /srv/music, got %s", cfg.Download.OutDir)
	}
	if cfg.Download.MaxConcurrent != 5 {
		t.Errorf("expected max_concurrent 5, got %d", cfg.Download.MaxConcurrent)
	}
	if cfg.Tools.YtDlp != "/usr/local/bin/yt-dlp" {
		t.Errorf("expected custom yt-dlp path, got %s", cfg.Tools.YtDlp)
	}
	if cfg.Tools.SpotDL != "spotdl" {
		t.Errorf("expected spotdl default to survive, got %s", cfg.Tools.SpotDL)
	}
	if cfg.Server.ShutdownGrace != 10*time.Second {
		t.Errorf("expected 10s grace, got %s", cfg.Server.ShutdownGrace)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "port: \"8080\"\n")
	t.Setenv("JACKTRACKER_PORT", "9999")
	t.Setenv("JACKTRACKER_DOWNLOAD_MAX_CONCURRENT", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("expected env port 9999, got %s", cfg.Port)
	}
	if cfg.Download.MaxConcurrent != 2 {
		t.Errorf("expected env max_concurrent 2, got %d", cfg.Download.MaxConcurrent)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero concurrency", "download:\n  max_concurrent: 0\n", "max_concurrent"},
		{"relative route", "download:\n  route: downloads\n", "download.route"},
		{"bad ws path", "server:\n  ws_path: ws\n", "ws_path"},
		{"unknown driver", "store:\n  driver: mysql\n", "unsupported"},
		{"postgres without dsn", "store:\n  driver: postgres\n", "postgres_dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}
