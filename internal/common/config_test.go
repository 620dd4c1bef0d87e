package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"OCR_LANG", "OCR_POOL_SIZE", "TESSDATA_PREFIX", "OCR_TIMEOUT",
		"GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_MODEL", "GEMINI_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.OCR.Language != "eng" {
		t.Errorf("language = %q", cfg.OCR.Language)
	}
	if cfg.OCR.PoolSize != 4 {
		t.Errorf("pool size = %d", cfg.OCR.PoolSize)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Errorf("ocr timeout = %v", cfg.OCR.Timeout)
	}
	if cfg.AI.Model != "gemini-1.5-flash" {
		t.Errorf("model = %q", cfg.AI.Model)
	}
	if cfg.AI.APIKey != "" {
		t.Errorf("api key should default empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_LANG", "deu")
	t.Setenv("OCR_POOL_SIZE", "8")
	t.Setenv("OCR_TIMEOUT", "10s")
	t.Setenv("GEMINI_RATE_PER_SEC", "0.5")

	cfg := LoadConfig()
	if cfg.OCR.Language != "deu" {
		t.Errorf("language = %q", cfg.OCR.Language)
	}
	if cfg.OCR.PoolSize != 8 {
		t.Errorf("pool size = %d", cfg.OCR.PoolSize)
	}
	if cfg.OCR.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", cfg.OCR.Timeout)
	}
	if cfg.AI.RatePerSec != 0.5 {
		t.Errorf("rate = %v", cfg.AI.RatePerSec)
	}
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("OCR_POOL_SIZE", "many")
	t.Setenv("OCR_TIMEOUT", "soon")
	t.Setenv("GEMINI_RATE_PER_SEC", "fast")

	cfg := LoadConfig()
	if cfg.OCR.PoolSize != 4 {
		t.Errorf("pool size = %d, want default", cfg.OCR.PoolSize)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want default", cfg.OCR.Timeout)
	}
	if cfg.AI.RatePerSec != 2 {
		t.Errorf("rate = %v, want default", cfg.AI.RatePerSec)
	}
}

func TestValidateRejectsBadPoolSize(t *testing.T) {
	cfg := &Config{OCR: OCRConfig{Language: "eng", PoolSize: 0}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero pool size")
	}
}
