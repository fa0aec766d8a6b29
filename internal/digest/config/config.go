// Package config loads MarketBrief configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// EmailConfig holds SMTP and Gmail OAuth settings for report delivery.
type EmailConfig struct {
	SMTPHost string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"smtp_port" env:"SMTP_PORT"`
	From     string `yaml:"from" env:"EMAIL_FROM"`
	FromName string `yaml:"from_name"`
	Password string `yaml:"password" env:"EMAIL_PASSWORD"`

	// Fallback recipients when no subscribers are registered.
	// Comma-separated.
	To string `yaml:"to" env:"EMAIL_TO"`

	ClientID     string `yaml:"client_id" env:"GMAIL_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GMAIL_CLIENT_SECRET"`
	RefreshToken string `yaml:"refresh_token" env:"GMAIL_REFRESH_TOKEN"`
}

// Recipients splits the fallback To list.
func (e EmailConfig) Recipients() []string {
	if strings.TrimSpace(e.To) == "" {
		return nil
	}
	parts := strings.Split(e.To, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Config is the full application configuration.
type Config struct {
	Email EmailConfig `yaml:"email"`

	AlphaVantageKey string `yaml:"alpha_vantage_key" env:"ALPHA_VANTAGE_API_KEY"`
	FinnhubKey      string `yaml:"finnhub_key" env:"FINNHUB_API_KEY"`

	PortfolioPath string `yaml:"portfolio_path" env:"PORTFOLIO_PATH"`
	WatchlistPath string `yaml:"watchlist_path" env:"WATCHLIST_PATH"`

	DataDir   string `yaml:"data_dir" env:"DATA_DIR"`
	ReportDir string `yaml:"report_dir" env:"REPORT_DIR"`
	DBPath    string `yaml:"db_path" env:"DB_PATH"`

	// TestRun skips email delivery and writes reports to disk only.
	TestRun bool `yaml:"test_run" env:"TEST_RUN"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: "465",
			FromName: "MarketBrief",
		},
		PortfolioPath: "config/portfolio.yaml",
		WatchlistPath: "config/watchlist.yaml",
		DataDir:       "data",
		ReportDir:     "reports",
		DBPath:        "data/marketbrief.db",
	}
}

// Load reads the YAML file at path into a Config, starting from
// defaults and finishing with environment variable overrides. A missing
// file is not an error; defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides sets struct fields from environment variables named
// by the `env` struct tag, recursing into nested structs.
func applyEnvOverrides(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := val.Field(i)

		if fieldVal.Kind() == reflect.Struct {
			if fieldVal.CanAddr() {
				applyEnvOverrides(fieldVal.Addr().Interface())
			}
			continue
		}

		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envVal, ok := os.LookupEnv(envTag)
		if !ok || !fieldVal.CanSet() {
			continue
		}

		switch fieldVal.Kind() {
		case reflect.String:
			fieldVal.SetString(envVal)
		case reflect.Bool:
			fieldVal.SetBool(strings.EqualFold(envVal, "true") || envVal == "1")
		case reflect.Int, reflect.Int64:
			var n int64
			if _, err := fmt.Sscanf(envVal, "%d", &n); err == nil {
				fieldVal.SetInt(n)
			}
		}
	}
}
