package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/alttext")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.CaptionBaseURL != "https://alttextgeneratorai.com" {
		t.Errorf("CaptionBaseURL = %q", cfg.CaptionBaseURL)
	}
	if cfg.CaptionTimeout != 30*time.Second {
		t.Errorf("CaptionTimeout = %v", cfg.CaptionTimeout)
	}
	if cfg.VerifyTimeout != 10*time.Second {
		t.Errorf("VerifyTimeout = %v", cfg.VerifyTimeout)
	}
	if cfg.BatchPageSize != 100 {
		t.Errorf("BatchPageSize = %d", cfg.BatchPageSize)
	}
	if cfg.WorkerPoll != 2*time.Second {
		t.Errorf("WorkerPoll = %v", cfg.WorkerPoll)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/alttext")
	t.Setenv("PORT", "9090")
	t.Setenv("CAPTION_TIMEOUT_SECONDS", "5")
	t.Setenv("BATCH_PAGE_SIZE", "250")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.CaptionTimeout != 5*time.Second {
		t.Errorf("CaptionTimeout = %v", cfg.CaptionTimeout)
	}
	if cfg.BatchPageSize != 250 {
		t.Errorf("BatchPageSize = %d", cfg.BatchPageSize)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error without DATABASE_URL")
	}
}

func TestLoadConfigIgnoresBadInt(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/alttext")
	t.Setenv("BATCH_PAGE_SIZE", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BatchPageSize != 100 {
		t.Errorf("BatchPageSize = %d, want default", cfg.BatchPageSize)
	}
}
