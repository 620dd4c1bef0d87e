package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	OCR OCRConfig
	AI  AIConfig
}

// OCRConfig holds OCR-related configuration.
type OCRConfig struct {
	Language    string
	PoolSize    int
	TessdataDir string
	Timeout     time.Duration
}

// AIConfig holds multimodal-extraction configuration.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	RatePerSec  float64
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Language:    getEnv("OCR_LANG", "eng"),
			PoolSize:    getEnvAsInt("OCR_POOL_SIZE", 4),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Timeout:     getEnvAsDuration("OCR_TIMEOUT", 30*time.Second),
		},
		AI: AIConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			BaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
			MaxAttempts: getEnvAsInt("GEMINI_MAX_ATTEMPTS", 3),
			RatePerSec:  getEnvAsFloat64("GEMINI_RATE_PER_SEC", 2),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks configuration that must be present before serving.
// The AI key is optional: the heuristic path works without it, and the
// adapter itself rejects extraction attempts when the key is absent.
func (c *Config) Validate() error {
	if c.OCR.PoolSize <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_POOL_SIZE must be positive", nil)
	}
	if c.OCR.Language == "" {
		return NewAppError("CONFIG_ERROR", "OCR_LANG is required", nil)
	}
	return nil
}
