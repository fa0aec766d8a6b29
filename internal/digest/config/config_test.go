package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.SMTPHost != "smtp.gmail.com" {
		t.Errorf("SMTPHost = %q, want smtp.gmail.com", cfg.Email.SMTPHost)
	}
	if cfg.PortfolioPath != "config/portfolio.yaml" {
		t.Errorf("PortfolioPath = %q", cfg.PortfolioPath)
	}
	if cfg.TestRun {
		t.Error("TestRun should default to false")
	}
}

func TestLoadFile(t *testing.T) {
	content := `
email:
  smtp_host: mail.example.com
  smtp_port: "587"
  from: digest@example.com
  to: a@example.com, b@example.com
alpha_vantage_key: demo
data_dir: /tmp/mb
`
	path := filepath.Join(t.TempDir(), "marketbrief.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.SMTPHost != "mail.example.com" {
		t.Errorf("SMTPHost = %q", cfg.Email.SMTPHost)
	}
	if cfg.AlphaVantageKey != "demo" {
		t.Errorf("AlphaVantageKey = %q", cfg.AlphaVantageKey)
	}
	// Defaults survive for fields the file omits
	if cfg.WatchlistPath != "config/watchlist.yaml" {
		t.Errorf("WatchlistPath = %q", cfg.WatchlistPath)
	}

	got := cfg.Email.Recipients()
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Errorf("Recipients() = %v", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "env-key")
	t.Setenv("GMAIL_CLIENT_ID", "client-123")
	t.Setenv("TEST_RUN", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AlphaVantageKey != "env-key" {
		t.Errorf("AlphaVantageKey = %q", cfg.AlphaVantageKey)
	}
	if cfg.Email.ClientID != "client-123" {
		t.Errorf("ClientID = %q", cfg.Email.ClientID)
	}
	if !cfg.TestRun {
		t.Error("TestRun should be true")
	}
}

func TestRecipientsEmpty(t *testing.T) {
	if got := (EmailConfig{}).Recipients(); got != nil {
		t.Errorf("Recipients() = %v, want nil", got)
	}
}
