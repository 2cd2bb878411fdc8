package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is read once at startup and
// treated as read-only afterwards.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTExpiry time.Duration

	BcryptCost    int
	ResetTokenTTL time.Duration

	FrontendURL    string
	AllowedOrigins []string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// minBcryptCost is the floor we accept from the environment. Anything lower
// makes stored hashes too cheap to brute-force.
const minBcryptCost = 10

// Load reads the environment (via .env when present) into a Config.
// A missing JWT secret is a hard error: we refuse to start with unsigned
// sessions.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("API_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "fixly"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: getDurationEnv("JWT_EXPIRES_IN", time.Hour),

		BcryptCost:    getIntEnv("BCRYPT_COST", 12),
		ResetTokenTTL: getDurationEnv("RESET_TOKEN_TTL", 15*time.Minute),

		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: os.Getenv("MAIL_FROM"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.BcryptCost < minBcryptCost {
		cfg.BcryptCost = minBcryptCost
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
