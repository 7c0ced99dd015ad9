package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	LoginStateTTL    time.Duration
	ProviderTimeout  time.Duration
	FrontendOrigin   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleScopes       []string

	MicrosoftClientID     string
	MicrosoftClientSecret string
	MicrosoftRedirectURI  string
	MicrosoftScopes       []string
	MicrosoftTenant       string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=mailbridge port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
		LoginStateTTL:    getDuration("LOGIN_STATE_TTL", 10*time.Minute),
		ProviderTimeout:  getDuration("PROVIDER_TIMEOUT", 15*time.Second),
		FrontendOrigin:   getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/google/callback"),
		GoogleScopes: getScopes("GOOGLE_SCOPES",
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/gmail.send",
			"https://www.googleapis.com/auth/calendar.events",
		),

		MicrosoftClientID:     getEnv("MICROSOFT_CLIENT_ID", ""),
		MicrosoftClientSecret: getEnv("MICROSOFT_CLIENT_SECRET", ""),
		MicrosoftRedirectURI:  getEnv("MICROSOFT_REDIRECT_URI", "http://localhost:8080/api/auth/microsoft/callback"),
		MicrosoftScopes: getScopes("MICROSOFT_SCOPES",
			"openid",
			"profile",
			"email",
			"offline_access",
			"User.Read",
			"Mail.Send",
			"Calendars.ReadWrite",
		),
		MicrosoftTenant: getEnv("MICROSOFT_TENANT", "common"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if exp := os.Getenv(key); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getScopes(key string, defaults ...string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Fields(value)
	}
	return defaults
}
