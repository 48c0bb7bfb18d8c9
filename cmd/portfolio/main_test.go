// ABOUTME: Tests for CLI helpers: bootstrap argument parsing and log handlers
// ABOUTME: Commands that touch the filesystem or network are covered by package tests elsewhere

package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/2389/portfolio/internal/config"
)

func TestParseBootstrapArgs(t *testing.T) {
	got, err := parseBootstrapArgs([]string{"--email", "me@example.com", "--password=hunter2hunter2", "--name", "Me"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.email != "me@example.com" || got.password != "hunter2hunter2" || got.name != "Me" {
		t.Errorf("unexpected args: %+v", got)
	}

	bad := [][]string{
		{},
		{"--name", "Me"},
		{"--email"},
		{"--bogus", "x"},
		{"stray"},
	}
	for _, args := range bad {
		if _, err := parseBootstrapArgs(args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestReadPassword(t *testing.T) {
	t.Setenv(passwordEnv, "")
	pw, err := readPassword(strings.NewReader("s3cret-password\r\nignored\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pw != "s3cret-password" {
		t.Errorf("got %q", pw)
	}

	t.Setenv(passwordEnv, "from-env-password")
	if pw, _ := readPassword(strings.NewReader("")); pw != "from-env-password" {
		t.Errorf("expected env password, got %q", pw)
	}
}

func TestColorHandler(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Debug("hidden")
	logger.With("component", "store").WithGroup("db").Info("opened", "driver", "sqlite")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(out, "INF opened") || !strings.Contains(out, "db.driver=sqlite") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, " component=store") || strings.Contains(out, "db.component") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("skipped")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "skipped") || !strings.Contains(buf.String(), `"msg":"kept"`) {
		t.Errorf("unexpected output %q", buf.String())
	}
	if _, ok := logger.Handler().(*slog.JSONHandler); !ok {
		t.Error("expected a JSON handler")
	}
}

func TestDescribeDatabaseHidesURL(t *testing.T) {
	got := describeDatabase(config.DatabaseConfig{Driver: config.DriverPostgres, URL: "postgres://u:pw@host/db"})
	if strings.Contains(got, "pw") {
		t.Errorf("credentials leaked: %q", got)
	}
}

func TestHealthURL(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{HTTPAddr: "localhost:8080"}}
	got, err := healthURL(cfg)
	if err != nil || got != "http://localhost:8080/health/ready" {
		t.Fatalf("healthURL = %q, %v", got, err)
	}

	cfg.Tailscale.Enabled = true
	if _, err := healthURL(cfg); err == nil || !strings.Contains(err.Error(), "tailscale") {
		t.Errorf("expected tailscale error, got %v", err)
	}

	cfg = &config.Config{}
	if _, err := healthURL(cfg); err == nil {
		t.Error("expected error for empty http_addr")
	}
}
