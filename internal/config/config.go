package config

import (
	"os"
	"strings"
)

// Config is built once in main from the environment and injected into every
// component; nothing reads the environment after startup.
type Config struct {
	MongoURL      string
	RedisURL      string
	Port          string
	BaseURL       string // public origin used in OAuth callbacks and reset links
	SessionSecret string

	AllowedOrigins []string // CORS

	GoogleClientID     string
	GoogleClientSecret string
	FacebookClientID   string
	FacebookClientSecret string

	CloudName   string
	CloudKey    string
	CloudSecret string

	EmailHost string
	EmailPort string
	EmailUser string
	EmailPass string
	EmailFrom string
}

func Load() *Config {
	baseURL := strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:3000"), "/")

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{baseURL}
	}

	return &Config{
		MongoURL:      getEnv("MONGO_URL", "mongodb://localhost:27017/barreview"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		Port:          getEnv("PORT", "3000"),
		BaseURL:       baseURL,
		SessionSecret: getEnv("SESSION_SECRET", "secret"),

		AllowedOrigins: allowedOrigins,

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FB_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FB_CLIENT_SECRET", ""),

		CloudName:   getEnv("CLOUD_NAME", ""),
		CloudKey:    getEnv("CLOUD_KEY", ""),
		CloudSecret: getEnv("CLOUD_SECRET", ""),

		EmailHost: getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort: getEnv("EMAIL_PORT", "587"),
		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),
		EmailFrom: getEnv("EMAIL_FROM", "Bar Review <no-reply@barreview.com>"),
	}
}

// HasGoogle reports whether Google login is configured.
func (c *Config) HasGoogle() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// HasFacebook reports whether Facebook login is configured.
func (c *Config) HasFacebook() bool {
	return c.FacebookClientID != "" && c.FacebookClientSecret != ""
}

// HasCloudinary reports whether the media host is configured.
func (c *Config) HasCloudinary() bool {
	return c.CloudName != "" && c.CloudKey != "" && c.CloudSecret != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
