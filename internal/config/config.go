// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// CORS Configuration
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Gemini (image generation) Configuration
	GeminiAPIKey       string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel        string        `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL      string        `mapstructure:"GEMINI_BASE_URL"`
	GeminiTimeout      time.Duration `mapstructure:"GEMINI_TIMEOUT_SECONDS"`
	MaxUploadSizeBytes int64         `mapstructure:"MAX_UPLOAD_SIZE_BYTES"`
	StartingCredits    int           `mapstructure:"STARTING_CREDITS"`

	// Razorpay (billing) Configuration
	RazorpayKeyID         string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `mapstructure:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `mapstructure:"RAZORPAY_WEBHOOK_SECRET"`
	RazorpayBaseURL       string `mapstructure:"RAZORPAY_BASE_URL"`
	BillingCurrency       string `mapstructure:"BILLING_CURRENCY"`
	PricingPlansPath      string `mapstructure:"PRICING_PLANS_PATH"`

	// Google Drive (export) Configuration
	DriveFolder string `mapstructure:"DRIVE_FOLDER"`

	// Cron Jobs
	OrderExpiryJobSchedule string        `mapstructure:"ORDER_EXPIRY_JOB_SCHEDULE"`
	OrderPendingTTL        time.Duration `mapstructure:"ORDER_PENDING_TTL_MINUTES"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "photo_editor_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Firebase
	v.SetDefault("FIREBASE_PROJECT_ID", "") // Optional
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	// Gemini
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-image-preview")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_TIMEOUT_SECONDS", 120)
	v.SetDefault("MAX_UPLOAD_SIZE_BYTES", 10<<20) // PNG, JPG, WEBP up to 10MB
	v.SetDefault("STARTING_CREDITS", 5)

	// Razorpay
	v.SetDefault("RAZORPAY_KEY_ID", "")
	v.SetDefault("RAZORPAY_KEY_SECRET", "")
	v.SetDefault("RAZORPAY_WEBHOOK_SECRET", "")
	v.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com")
	v.SetDefault("BILLING_CURRENCY", "INR")
	v.SetDefault("PRICING_PLANS_PATH", "")

	// Google Drive
	v.SetDefault("DRIVE_FOLDER", "appDataFolder")

	// Jobs
	v.SetDefault("ORDER_EXPIRY_JOB_SCHEDULE", "@hourly")
	v.SetDefault("ORDER_PENDING_TTL_MINUTES", 60)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.GeminiTimeout = time.Duration(v.GetInt("GEMINI_TIMEOUT_SECONDS")) * time.Second
	cfg.OrderPendingTTL = time.Duration(v.GetInt("ORDER_PENDING_TTL_MINUTES")) * time.Minute

	// CORS origins come in as a comma-separated env value.
	cfg.CORSAllowedOrigins = nil
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	// GORM DSN constructed from the individual DB_* params. DB_SOURCE, when set,
	// is for external tooling (e.g. migrate) and is left untouched in the env.
	cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("FATAL: GEMINI_API_KEY is not set. This is required for the image generation service")
	}

	return &cfg, nil
}
