package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime settings for the CardIQ CLI.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Generation GenerationConfig `mapstructure:"generation"`
	Documents  DocumentsConfig  `mapstructure:"documents"`
	Stats      StatsConfig      `mapstructure:"stats"`
	Session    SessionConfig    `mapstructure:"session"`
}

type DatabaseConfig struct {
	// Path of the SQLite database file.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// GenerationConfig configures the OpenAI-compatible text-generation endpoint.
type GenerationConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// DocumentsConfig configures the document pipeline: where uploads go and
// which service extracts the text.
type DocumentsConfig struct {
	// Uploader is "pdfco" or "s3".
	Uploader     string        `mapstructure:"uploader"`
	PDFcoBaseURL string        `mapstructure:"pdfco_base_url"`
	PDFcoAPIKey  string        `mapstructure:"pdfco_api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	S3           S3Config      `mapstructure:"s3"`
}

// S3Config describes an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// StatsConfig fixes the calendar used by streaks and weekly counts.
type StatsConfig struct {
	// UTCOffset is the fixed offset of the user's calendar day, e.g. "8h".
	UTCOffset time.Duration `mapstructure:"utc_offset"`
	// WeekStart is the English name of the first day of the week.
	WeekStart string `mapstructure:"week_start"`
}

type SessionConfig struct {
	// TokenTTL is how long a login stays valid on this device.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

const (
	UploaderPDFco = "pdfco"
	UploaderS3    = "s3"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Database.Path = "cardIQ.db"
	c.Log.Level = "info"
	c.Log.Format = "text"

	c.Generation.BaseURL = "https://api.openai.com/v1"
	c.Generation.Model = "gpt-4o-mini"
	c.Generation.Timeout = 60 * time.Second
	c.Generation.MaxRetries = 2

	c.Documents.Uploader = UploaderPDFco
	c.Documents.PDFcoBaseURL = "https://api.pdf.co/v1"
	c.Documents.Timeout = 60 * time.Second
	c.Documents.S3.Region = "us-east-1"
	c.Documents.S3.PresignExpiry = 15 * time.Minute

	c.Stats.UTCOffset = 0
	c.Stats.WeekStart = "monday"

	c.Session.TokenTTL = 30 * 24 * time.Hour
}

// Location returns the fixed zone of the statistics calendar.
func (s StatsConfig) Location() *time.Location {
	if s.UTCOffset == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+g", s.UTCOffset.Hours()), int(s.UTCOffset.Seconds()))
}

// FirstWeekday parses WeekStart.
func (s StatsConfig) FirstWeekday() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s.WeekStart)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown week start %q", s.WeekStart)
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	switch c.Documents.Uploader {
	case UploaderPDFco:
	case UploaderS3:
		if c.Documents.S3.Bucket == "" {
			return fmt.Errorf("documents.s3.bucket is required for the s3 uploader")
		}
	default:
		return fmt.Errorf("unknown documents.uploader %q", c.Documents.Uploader)
	}
	if c.Generation.MaxRetries < 0 {
		return fmt.Errorf("generation.max_retries must not be negative")
	}
	if c.Stats.UTCOffset < -14*time.Hour || c.Stats.UTCOffset > 14*time.Hour {
		return fmt.Errorf("stats.utc_offset out of range: %s", c.Stats.UTCOffset)
	}
	if _, err := c.Stats.FirstWeekday(); err != nil {
		return err
	}
	return nil
}
