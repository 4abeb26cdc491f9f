package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LeaveConfig holds the organization-wide leave policy.
type LeaveConfig struct {
	// AnnualQuotaDays is the cap on approved leave days per employee and calendar year.
	AnnualQuotaDays int
	// HRRequiresChiefApproval makes HR processing conditional on a prior chief approval.
	HRRequiresChiefApproval bool
	MaxUploadBytes          int
	AttachmentURLExpirySec  int
}

// EventsConfig holds settings for the server-sent events fan-out.
type EventsConfig struct {
	BufferSize   int
	HeartbeatSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	LogLevel string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Leave    LeaveConfig
	Events   EventsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "leaveapi"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Leave: LeaveConfig{
			AnnualQuotaDays:         getEnvInt("LEAVE_ANNUAL_QUOTA_DAYS", 30),
			HRRequiresChiefApproval: getEnvBool("LEAVE_HR_REQUIRES_CHIEF_APPROVAL", false),
			MaxUploadBytes:          getEnvInt("LEAVE_MAX_UPLOAD_BYTES", 10*1024*1024),
			AttachmentURLExpirySec:  getEnvInt("ATTACHMENT_URL_EXPIRY_SEC", 900),
		},
		Events: EventsConfig{
			BufferSize:   getEnvInt("EVENTS_BUFFER_SIZE", 16),
			HeartbeatSec: getEnvInt("EVENTS_HEARTBEAT_SEC", 25),
		},
	}
}

// Validate rejects settings the service cannot run with.
func (c *AppConfig) Validate() error {
	if c.Leave.AnnualQuotaDays <= 0 {
		return fmt.Errorf("LEAVE_ANNUAL_QUOTA_DAYS must be positive")
	}
	if c.Leave.MaxUploadBytes <= 0 {
		return fmt.Errorf("LEAVE_MAX_UPLOAD_BYTES must be positive")
	}
	if c.Events.BufferSize <= 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be positive")
	}
	if c.Events.HeartbeatSec <= 0 {
		return fmt.Errorf("EVENTS_HEARTBEAT_SEC must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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
