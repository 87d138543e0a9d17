package config

import (
	"os"
	"time"
)

// Config holds every environment-derived setting the application reads.
// Loaded once at startup and passed down explicitly; nothing else in the
// codebase calls os.Getenv for these values.
type Config struct {
	Port        string
	DatabaseURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration

	// Hosted payment page the checkout flow redirects to. The amount is
	// appended as a query parameter in minor units (paise).
	PaymentPageURL string
	PaymentKey     string

	UploadsDir string
	BackupDir  string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the environment. Call godotenv.Load() first in main.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "asha_store"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		TokenTTL:      24 * time.Hour,
		ResetTokenTTL: 30 * time.Minute,

		PaymentPageURL: getEnv("PAYMENT_PAGE_URL", "https://pages.razorpay.com/asha-store"),
		PaymentKey:     os.Getenv("PAYMENT_KEY"),

		UploadsDir: getEnv("UPLOADS_DIR", "/var/www/asha/uploads"),
		BackupDir:  getEnv("BACKUP_DIR", "/var/www/asha/backup/uploads"),
	}
}
