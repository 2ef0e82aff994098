package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("ServerAddress() = %s, want 0.0.0.0:8080", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %s, want 60s", cfg.RequestTimeout)
	}
	if cfg.UploadDir != "static/uploads" || cfg.PreprocessedDir != "static/preprocessed" || cfg.ResultsDir != "static/results" {
		t.Errorf("unexpected artifact dirs: %s %s %s", cfg.UploadDir, cfg.PreprocessedDir, cfg.ResultsDir)
	}
	if len(cfg.OCRLanguages) != 2 || cfg.OCRLanguages[0] != "eng" || cfg.OCRLanguages[1] != "rus" {
		t.Errorf("OCRLanguages = %v, want [eng rus]", cfg.OCRLanguages)
	}
	if cfg.ArchiveEnabled() {
		t.Error("archive should be disabled by default")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "2m")
	t.Setenv("OCR_LANGUAGES", "eng, deu ,")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.RequestTimeout != 2*time.Minute {
		t.Errorf("RequestTimeout = %s, want 2m", cfg.RequestTimeout)
	}
	if len(cfg.OCRLanguages) != 2 || cfg.OCRLanguages[1] != "deu" {
		t.Errorf("OCRLanguages = %v, want [eng deu]", cfg.OCRLanguages)
	}
	if cfg.UploadDir != "/tmp/uploads" {
		t.Errorf("UploadDir = %s, want /tmp/uploads", cfg.UploadDir)
	}
}

func TestLoadFromEnvInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for invalid PORT")
	}

	t.Setenv("PORT", "70000")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for out-of-range PORT")
	}
}

func TestArchiveEnabled(t *testing.T) {
	t.Setenv("ARCHIVE_ACCOUNT_NAME", "acct")
	t.Setenv("ARCHIVE_ACCOUNT_KEY", "a2V5")
	t.Setenv("ARCHIVE_CONTAINER", "results")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if !cfg.ArchiveEnabled() {
		t.Error("archive should be enabled when all three settings are present")
	}
}
