package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Mock bank ledger store. Lives apart from the application data.
	BankDBDriver string
	BankDBDSN    string

	// When set, eligibility lookups go over HTTP instead of the bank DB.
	BankAPIURL     string
	BankAPIKey     string
	BankAPITimeout time.Duration
	BankAPIRetries int

	JWTKey          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SaltRound       int

	RedisURL string

	MailDriver      string // sendgrid, smtp or log
	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string
	SMTPHost        string
	SMTPPort        string
	SMTPPassword    string

	OutboxWorkers     int
	OutboxQueueSize   int
	OutboxMaxAttempts int
	OutboxSweepSpec   string

	UploadDir string

	// Peers allowed to set X-Forwarded-For. Empty means the header is ignored.
	TrustedProxies []string

	AdminUsername string
	AdminPassword string
	AdminEmail    string

	LogLevel  string
	LogFormat string
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
		Port: getEnv("PORT", "8000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "empowerment"),
		DBPort:     getEnv("DB_PORT", "5432"),

		BankDBDriver: getEnv("BANK_DB_DRIVER", "sqlite"),
		BankDBDSN:    getEnv("BANK_DB_DSN", "bank.db"),

		BankAPIURL:     getEnv("BANK_API_URL", ""),
		BankAPIKey:     getEnv("BANK_API_KEY", "defaultSecret"),
		BankAPITimeout: getEnvDuration("BANK_API_TIMEOUT", 5*time.Second),
		BankAPIRetries: getEnvInt("BANK_API_RETRIES", 2),

		JWTKey:          getEnv("JWT_SECRET_KEY", "defaultSecret"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		SaltRound:       getEnvInt("SALT_ROUND", 10),

		RedisURL: getEnv("REDIS_URL", ""),

		MailDriver:      getEnv("MAIL_DRIVER", "log"),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "noreply@empowerment.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Empowerment Program"),
		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),

		OutboxWorkers:     getEnvInt("OUTBOX_WORKERS", 2),
		OutboxQueueSize:   getEnvInt("OUTBOX_QUEUE_SIZE", 100),
		OutboxMaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 5),
		OutboxSweepSpec:   getEnv("OUTBOX_SWEEP_SPEC", "@every 1m"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@empowerment.local"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.BankAPIURL != "" && AppConfig.BankAPIKey == "defaultSecret" {
		log.Println("Warning: Using default BANK_API_KEY for the remote bank ledger.")
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

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvDuration parses values like "30s" or "15m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
