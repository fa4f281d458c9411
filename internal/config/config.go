// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// External APIs
	GoogleAPIKey string
	OpenAIAPIKey string

	// SMTP delivery
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	// SES delivery
	EmailProvider  string
	SESSenderEmail string

	// AWS
	AWSRegion       string
	S3ArchiveBucket string

	// Solar economics
	DefaultElectricityRate float64
	InstallationCostPerKW  float64
	SystemPerformanceRatio float64
	PanelWattage           float64
	CO2PerKWh              float64

	// Application
	ReportDir string
	Port      string
	LogLevel  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// External APIs
		GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		// SMTP (Gmail app-password style credentials)
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", getEnv("GMAIL_USER", "")),
		SMTPPassword: getEnv("SMTP_PASSWORD", getEnv("GMAIL_APP_PASSWORD", "")),

		// SES
		EmailProvider:  getEnv("EMAIL_PROVIDER", "smtp"),
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		// AWS
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3ArchiveBucket: getEnv("S3_ARCHIVE_BUCKET", ""),

		// Solar economics
		DefaultElectricityRate: getEnvFloat("DEFAULT_ELECTRICITY_RATE", 0.25),
		InstallationCostPerKW:  getEnvFloat("INSTALLATION_COST_PER_KW", 3000),
		SystemPerformanceRatio: getEnvFloat("SYSTEM_PERFORMANCE_RATIO", 0.75),
		PanelWattage:           getEnvFloat("PANEL_WATTAGE", 400),
		CO2PerKWh:              getEnvFloat("CO2_PER_KWH", 0.0007),

		// Application
		ReportDir: getEnv("REPORT_DIR", "temp"),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// SMTPConfigured reports whether SMTP delivery credentials are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != ""
}

// SESConfigured reports whether SES delivery is usable.
func (c *Config) SESConfigured() bool {
	return c.SESSenderEmail != ""
}

// DeliveryConfigured reports whether the selected delivery channel is usable.
func (c *Config) DeliveryConfigured() bool {
	if c.EmailProvider == "ses" {
		return c.SESConfigured()
	}
	return c.SMTPConfigured()
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as float64 or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
