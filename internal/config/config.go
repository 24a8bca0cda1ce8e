package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Settings holds all process-wide configuration. It is built once in main
// and passed explicitly to the components that need it.
type Settings struct {
	AppName       string
	HTTPPort      string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL string
	UploadDir   string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads settings from the environment. DATABASE_URL and JWT_SECRET
// are required; everything else has a default.
//
// ACCESS_TOKEN_TTL and REFRESH_TOKEN_TTL are independent knobs. Both
// default to 168h, matching the deployed configuration; operators are
// expected to shorten the access TTL (see .env.example).
func Load() (Settings, error) {
	s := Settings{
		AppName:         envOr("APP_NAME", "texcat"),
		HTTPPort:        envOr("HTTP_PORT", "8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		PublicBaseURL:   envOr("PUBLIC_BASE_URL", "http://localhost:8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		UploadDir:       envOr("UPLOAD_DIR", "./uploads"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  envDuration("ACCESS_TOKEN_TTL", 168*time.Hour),
		RefreshTokenTTL: envDuration("REFRESH_TOKEN_TTL", 168*time.Hour),
		ResetTokenTTL:   envDuration("RESET_TOKEN_TTL", 5*time.Minute),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        envInt("SMTP_PORT", 587),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		MailFrom:        envOr("MAIL_FROM", "no-reply@texcat.local"),
	}
	if s.DatabaseURL == "" {
		return Settings{}, errors.New("DATABASE_URL is empty")
	}
	if s.JWTSecret == "" {
		return Settings{}, errors.New("JWT_SECRET is empty")
	}
	return s, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
