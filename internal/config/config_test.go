package config

import (
	"testing"

	"github.com/ehr/intake/internal/domain/intake"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "CORS_ORIGINS", "TIMEZONE", "AMBIGUOUS_HOUR_POLICY",
		"TESSERACT_PATH", "TESSERACT_LANG", "TESSERACT_PSM", "TESSDATA_DIR",
		"MAX_UPLOAD_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}
	if cfg.AmbiguousHourPolicy != "assume-pm" {
		t.Errorf("expected default policy assume-pm, got %s", cfg.AmbiguousHourPolicy)
	}
	if cfg.TesseractPath != "tesseract" || cfg.TesseractLang != "eng" {
		t.Errorf("unexpected tesseract defaults %q %q", cfg.TesseractPath, cfg.TesseractLang)
	}
	if cfg.MaxUploadSize != "10M" {
		t.Errorf("expected default upload size 10M, got %s", cfg.MaxUploadSize)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected CORS origins [*], got %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AMBIGUOUS_HOUR_POLICY", "business-hours")
	t.Setenv("TESSERACT_PSM", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("expected production mode")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.TesseractPSM != 6 {
		t.Errorf("expected PSM 6, got %d", cfg.TesseractPSM)
	}

	opts, err := cfg.NormalizeOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.HourPolicy != intake.HourPolicyBusinessHours {
		t.Errorf("expected business-hours, got %s", opts.HourPolicy)
	}
	if opts.Location.String() != "Asia/Kolkata" {
		t.Errorf("expected Asia/Kolkata, got %s", opts.Location)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		AmbiguousHourPolicy: "assume-pm",
		MaxUploadSize:       "10M",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty policy uses default", func(c *Config) { c.AmbiguousHourPolicy = "" }, false},
		{"unknown policy", func(c *Config) { c.AmbiguousHourPolicy = "guess" }, true},
		{"bad upload size", func(c *Config) { c.MaxUploadSize = "huge" }, true},
		{"psm out of range", func(c *Config) { c.TesseractPSM = 14 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeOptions_ZoneIsFixed(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEZONE", "America/New_York")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, err := cfg.NormalizeOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Location.String() != "Asia/Kolkata" {
		t.Errorf("expected Asia/Kolkata regardless of TIMEZONE, got %s", opts.Location)
	}
}
