package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ehr/intake/internal/domain/intake"
	"github.com/ehr/intake/internal/platform/middleware"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	AmbiguousHourPolicy string   `mapstructure:"AMBIGUOUS_HOUR_POLICY"`
	TesseractPath       string   `mapstructure:"TESSERACT_PATH"`
	TesseractLang       string   `mapstructure:"TESSERACT_LANG"`
	TesseractPSM        int      `mapstructure:"TESSERACT_PSM"`
	TessdataDir         string   `mapstructure:"TESSDATA_DIR"`
	MaxUploadSize       string   `mapstructure:"MAX_UPLOAD_SIZE"`
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("AMBIGUOUS_HOUR_POLICY", string(intake.HourPolicyAssumePM))
	v.SetDefault("TESSERACT_PATH", "tesseract")
	v.SetDefault("TESSERACT_LANG", "eng")
	v.SetDefault("TESSERACT_PSM", 0)
	v.SetDefault("MAX_UPLOAD_SIZE", "10M")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT",
		"ENV",
		"CORS_ORIGINS",
		"AMBIGUOUS_HOUR_POLICY",
		"TESSERACT_PATH",
		"TESSERACT_LANG",
		"TESSERACT_PSM",
		"TESSDATA_DIR",
		"MAX_UPLOAD_SIZE",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Env values arrive as a single comma-separated string.
	cfg.CORSOrigins = nil
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks the values that would otherwise only fail on the first
// request: the hour policy must be known and the upload cap must parse.
func (c *Config) Validate() error {
	if _, err := intake.ParseHourPolicy(c.AmbiguousHourPolicy); err != nil {
		return fmt.Errorf("AMBIGUOUS_HOUR_POLICY: %w", err)
	}
	if !middleware.ValidSize(c.MaxUploadSize) {
		return fmt.Errorf("MAX_UPLOAD_SIZE %q is not a valid size", c.MaxUploadSize)
	}
	if c.TesseractPSM < 0 || c.TesseractPSM > 13 {
		return fmt.Errorf("TESSERACT_PSM must be between 0 and 13, got %d", c.TesseractPSM)
	}
	return nil
}

// NormalizeOptions resolves the hour policy. The zone is always
// intake.DefaultTimezone; the tz field on the wire never varies.
func (c *Config) NormalizeOptions() (intake.NormalizeOptions, error) {
	loc, err := intake.LoadLocation(intake.DefaultTimezone)
	if err != nil {
		return intake.NormalizeOptions{}, err
	}
	policy, err := intake.ParseHourPolicy(c.AmbiguousHourPolicy)
	if err != nil {
		return intake.NormalizeOptions{}, err
	}
	return intake.NormalizeOptions{Location: loc, HourPolicy: policy}, nil
}
