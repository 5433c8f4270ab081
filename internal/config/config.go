package config

import (
	"os"
	"strconv"
)

// StampConfig bounds stamp generation.
type StampConfig struct {
	OutputDir string // optional directory for generated PNG copies; empty disables
}

// DocumentConfig bounds document intake.
type DocumentConfig struct {
	MaxFileMB  int // upload cap in megabytes
	MaxPageDim int // largest allowed page width or height in pixels
}

// SessionConfig controls session lifecycle.
type SessionConfig struct {
	TTLMinutes int // idle minutes before a session is evicted
}

// MinIOConfig holds object storage settings for MinIO. An empty Endpoint
// disables archiving.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Stamp    StampConfig
	Document DocumentConfig
	Session  SessionConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Stamp: StampConfig{
			OutputDir: getEnv("STAMP_OUTPUT_DIR", ""),
		},
		Document: DocumentConfig{
			MaxFileMB:  getEnvInt("DOC_MAX_FILE_MB", 50),
			MaxPageDim: getEnvInt("DOC_MAX_PAGE_DIM", 4000),
		},
		Session: SessionConfig{
			TTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 30),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
