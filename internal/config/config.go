package config

import (
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Config holds the application configuration values. Everything comes
// from the environment; components receive what they need explicitly
// rather than reading globals.
type Config struct {
	Port           string
	DBPath         string
	SecretKey      string
	AllowedOrigins string
	FrontendURL    string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	OtelExporterEndpoint string
	Version              string

	GoogleOAuthConfig *oauth2.Config
}

// GoogleCalendarScope grants full calendar access so tasks can be
// mirrored into the user's primary calendar.
const GoogleCalendarScope = "https://www.googleapis.com/auth/calendar"

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		DBPath:         getEnv("DB_PATH", "data/taskleaf.db"),
		SecretKey:      getEnv("SECRET_KEY", "change-me-in-production"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),

		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8000/api/auth/google/callback"),

		OtelExporterEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
		Version:              getEnv("VERSION", "dev"),
	}

	cfg.GoogleOAuthConfig = &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			GoogleCalendarScope,
		},
		Endpoint: google.Endpoint,
	}

	return cfg
}

// CORSOrigins splits the comma-separated ALLOWED_ORIGINS value.
func (cfg *Config) CORSOrigins() []string {
	parts := strings.Split(cfg.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
