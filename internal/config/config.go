package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	Host           string
	Port           string
	RequestTimeout time.Duration
	MaxUploadSize  int64

	// Artifact areas: raw uploads, normalized intermediates, extracted text
	UploadDir       string
	PreprocessedDir string
	ResultsDir      string

	// Recognition engine language hints, e.g. ["eng", "rus"]
	OCRLanguages []string

	// Optional Azure blob archival of persisted results; disabled when the
	// account name is empty
	ArchiveAccountName string
	ArchiveAccountKey  string
	ArchiveContainer   string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// ArchiveEnabled reports whether result archival to blob storage is configured
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveAccountName != "" && c.ArchiveAccountKey != "" && c.ArchiveContainer != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		MaxUploadSize:      parseIntOrDefault("MAX_UPLOAD_SIZE", 16*1024*1024), // 16MB
		UploadDir:          getEnvOrDefault("UPLOAD_DIR", "static/uploads"),
		PreprocessedDir:    getEnvOrDefault("PREPROCESSED_DIR", "static/preprocessed"),
		ResultsDir:         getEnvOrDefault("RESULTS_DIR", "static/results"),
		OCRLanguages:       parseListOrDefault("OCR_LANGUAGES", []string{"eng", "rus"}),
		ArchiveAccountName: os.Getenv("ARCHIVE_ACCOUNT_NAME"),
		ArchiveAccountKey:  os.Getenv("ARCHIVE_ACCOUNT_KEY"),
		ArchiveContainer:   os.Getenv("ARCHIVE_CONTAINER"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", cfg.MaxUploadSize)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", cfg.RequestTimeout)
	}
	for _, dir := range []string{cfg.UploadDir, cfg.PreprocessedDir, cfg.ResultsDir} {
		if strings.TrimSpace(dir) == "" {
			return nil, fmt.Errorf("artifact directories must not be empty")
		}
	}
	if len(cfg.OCRLanguages) == 0 {
		return nil, fmt.Errorf("OCR_LANGUAGES must name at least one language")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseListOrDefault splits a comma-separated env value, dropping empty items
func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
