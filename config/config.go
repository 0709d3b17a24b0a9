package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string
	JWTKey string

	LocalStorePath string // sqlite file backing the virtual-certificate fallback store

	EmailSender    string
	SendGridApiKey string

	CertificateWebhookURL string // external dashboard notified on issuance; empty disables

	ReconcileCron    string // schedule for the virtual-certificate sweep
	ReconcileBatchSz int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "lms"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		LocalStorePath: getEnv("LOCAL_STORE_PATH", "localCertificates.db"),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),

		CertificateWebhookURL: getEnv("CERTIFICATE_WEBHOOK_URL", ""),

		ReconcileCron:    getEnv("RECONCILE_CRON", "@every 15m"),
		ReconcileBatchSz: getEnvInt("RECONCILE_BATCH_SIZE", 50),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
