package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.App.Port)
	}
	if cfg.Auth.SessionTTLMinute != 60 {
		t.Fatalf("expected default session TTL 60, got %d", cfg.Auth.SessionTTLMinute)
	}
	if cfg.RabbitMQ.ActivityQueue != "item.activity.persist" {
		t.Fatalf("unexpected default activity queue: %q", cfg.RabbitMQ.ActivityQueue)
	}
	// Conditional ownership writes need matched-rows counting on the wire.
	if !strings.Contains(cfg.MySQL.Params, "clientFoundRows=true") {
		t.Fatalf("default mysql params must enable clientFoundRows, got %q", cfg.MySQL.Params)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MYSQL_DB", "itemboard_test")
	t.Setenv("SESSION_TTL_MINUTE", "15")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Fatalf("expected env port 9090, got %d", cfg.App.Port)
	}
	if cfg.MySQL.DB != "itemboard_test" {
		t.Fatalf("expected env db, got %q", cfg.MySQL.DB)
	}
	if cfg.Auth.SessionTTLMinute != 15 {
		t.Fatalf("expected env session TTL 15, got %d", cfg.Auth.SessionTTLMinute)
	}
	if !cfg.Auth.CookieSecure {
		t.Fatalf("expected cookie_secure override to true")
	}
}

func TestMySQLDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("MYSQL_USER", "app")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_HOST", "db.local")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_DB", "itemboard")
	t.Setenv("MYSQL_PARAMS", "parseTime=true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := "app:secret@tcp(db.local:3307)/itemboard?parseTime=true"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("DSN mismatch:\n got %q\nwant %q", got, want)
	}
}
