package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the PDF rendering service.
// Values are read once at startup and never mutated afterwards.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"PORT" envDefault:"3100"`

	// Chrome binary. Empty means auto-detection of common install paths.
	ChromePath string `env:"CHROME_PATH"`

	// Storage backend for upload-mode requests: "supabase" or "drive".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"supabase"`

	// Supabase project URL and service-role key (supabase backend).
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`

	// Google service-account credentials file (drive backend).
	GoogleCredentials   string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	DriveParentFolderID string `env:"DRIVE_PARENT_FOLDER_ID"`

	// Public base URL of the product image storage, used to build the
	// conventional thumb/main image candidate paths per product.
	AssetBaseURL string `env:"STORAGE_BASE_URL"`

	// Default bucket for uploaded price-list PDFs.
	DefaultBucket string `env:"PDF_BUCKET" envDefault:"pdfs"`

	// Webhook notified after a successful upload. Optional.
	WebhookURL string `env:"PDF_WEBHOOK_URL"`

	// Optional audit database. Empty disables the render log.
	DatabaseURL string `env:"DATABASE_URL"`

	// Brand logo embedded into rendered documents.
	LogoPath string `env:"LOGO_PATH" envDefault:"static/logo.png"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.StorageBackend != "supabase" && cfg.StorageBackend != "drive" {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	return cfg, nil
}

// StorageConfigured reports whether the selected storage backend has the
// credentials it needs. Upload-mode requests fail fast when this is false.
func (c *Config) StorageConfigured() bool {
	switch c.StorageBackend {
	case "supabase":
		return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
	case "drive":
		return c.GoogleCredentials != ""
	}
	return false
}
