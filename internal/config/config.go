// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrBucketRequired is returned when STORAGE_BUCKET is not set.
	ErrBucketRequired = errors.New("config: STORAGE_BUCKET is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Local working storage for pipeline artifacts
	TempDir string `env:"TEMP_DIR, default=/tmp/loltrackr" json:"temp_dir"`

	// Media toolchain binaries
	FFmpegPath  string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	FFprobePath string `env:"FFPROBE_PATH, default=ffprobe" json:"ffprobe_path"`

	// Script generation settings
	OpenAIAPIKey        string        `env:"OPENAI_API_KEY" json:"-"` // Masked in JSON
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL, default=https://api.openai.com/v1" json:"openai_base_url"`
	OpenAIModel         string        `env:"OPENAI_MODEL, default=gpt-4o-mini" json:"openai_model"`
	ScriptTemplatesOnly bool          `env:"SCRIPT_TEMPLATES_ONLY, default=false" json:"script_templates_only"`
	ScriptTimeout       time.Duration `env:"SCRIPT_TIMEOUT, default=15s" json:"script_timeout"`

	// Speech synthesis settings (optional; empty URL disables narration)
	TTSURL string `env:"TTS_URL" json:"tts_url,omitempty"`

	// Object storage settings
	StorageBucket         string `env:"STORAGE_BUCKET, required" json:"storage_bucket"`
	StorageRegion         string `env:"STORAGE_REGION, default=us-east-1" json:"storage_region"`
	StorageEndpoint       string `env:"STORAGE_ENDPOINT" json:"storage_endpoint,omitempty"`
	CredentialsJSON       string `env:"STORAGE_CREDENTIALS_JSON" json:"-"`   // Masked in JSON
	CredentialsBase64     string `env:"STORAGE_CREDENTIALS_BASE64" json:"-"` // Masked in JSON
	AWSAccessKeyID        string `env:"AWS_ACCESS_KEY_ID" json:"-"`          // Masked in JSON
	AWSSecretAccessKey    string `env:"AWS_SECRET_ACCESS_KEY" json:"-"`      // Masked in JSON
	SharedCredentialsFile string `env:"AWS_SHARED_CREDENTIALS_FILE" json:"shared_credentials_file,omitempty"`
	EnableObjectACL       bool   `env:"STORAGE_ENABLE_OBJECT_ACL, default=false" json:"storage_enable_object_acl"`

	// Pipeline scheduling settings
	InlineProcessing   bool          `env:"INLINE_PROCESSING, default=false" json:"inline_processing"`
	UploadCleanupDelay time.Duration `env:"UPLOAD_CLEANUP_DELAY, default=5s" json:"upload_cleanup_delay"`
	PipelineTimeout    time.Duration `env:"PIPELINE_TIMEOUT, default=0" json:"pipeline_timeout"`

	// Record store settings (optional; in-memory store when unset)
	DatabaseURL string `env:"DATABASE_URL" json:"-"` // Masked in JSON

	// CORS settings
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*" json:"cors_allowed_origins"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// ScriptRemoteEnabled returns true if the remote text-generation path may be used.
func (c *Config) ScriptRemoteEnabled() bool {
	return !c.ScriptTemplatesOnly && c.OpenAIAPIKey != ""
}

// TTSEnabled returns true if a speech-synthesis backend is configured.
func (c *Config) TTSEnabled() bool {
	return c.TTSURL != ""
}

// PostgresEnabled returns true if a database connection string is provided.
func (c *Config) PostgresEnabled() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "STORAGE_BUCKET") {
			return nil, ErrBucketRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.StorageBucket == "" {
		return ErrBucketRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TempDir: %s, OpenAIModel: %s, ScriptTemplatesOnly: %t, TTSEnabled: %t, StorageBucket: %s, StorageRegion: %s, InlineProcessing: %t, PostgresEnabled: %t, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.TempDir,
		c.OpenAIModel,
		c.ScriptTemplatesOnly,
		c.TTSEnabled(),
		c.StorageBucket,
		c.StorageRegion,
		c.InlineProcessing,
		c.PostgresEnabled(),
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
