package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometria/authcore/internal/domain"
)

// Config holds the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Token configuration
	JWTAccessDuration time.Duration
	JWTKeyPath        string
	Issuer            string

	// Session configuration
	SessionTTL   time.Duration
	PaymentScope string

	// Collaborator endpoints
	LoginURL        string
	PaymentSetupURL string

	// Server configuration
	ServerPort int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_DURATION", "15m"))
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "10m"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "authcore"),
		DBPassword: getEnv("DB_PASSWORD", "authcore"),
		DBName:     getEnv("DB_NAME", "authcore"),

		JWTAccessDuration: accessDuration,
		JWTKeyPath:        getEnv("JWT_KEY_PATH", ""),
		Issuer:            getEnv("ISSUER", "http://localhost:8080"),

		SessionTTL:   sessionTTL,
		PaymentScope: getEnv("PAYMENT_SCOPE", "prometheus:charge"),

		LoginURL:        getEnv("LOGIN_URL", "http://localhost:8081/login"),
		PaymentSetupURL: getEnv("PAYMENT_SETUP_URL", "http://localhost:8082"),

		ServerPort: getEnvInt("PORT", 8080),
	}, nil
}

// NewConfig creates a configuration with default values, used in tests
func NewConfig() *Config {
	return &Config{
		DBPort:            5432,
		JWTAccessDuration: domain.DefaultAccessTokenDuration,
		Issuer:            "http://localhost:8080",
		SessionTTL:        domain.DefaultSessionTTL,
		PaymentScope:      "prometheus:charge",
		LoginURL:          "http://localhost:8081/login",
		PaymentSetupURL:   "http://localhost:8082",
		ServerPort:        8080,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
