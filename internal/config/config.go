package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Host        string
	Port        string
	CORSOrigins []string

	DatabaseURL string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioCallerNumber string
	VoiceWebhookSecret string

	Timezone             *time.Location
	CheckIntervalSeconds int

	AppBaseURL string
	LogLevel   string
}

// Load reads configuration values and prepares defaults where applicable.
// Required values (DATABASE_URL, Twilio credentials) are validated by the
// components that consume them, not here.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("TIMEZONE", "UTC")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid TIMEZONE %q, defaulting to UTC: %v", timezoneName, err)
		location = time.UTC
	}

	return &Config{
		Host:                 getenvDefault("HOST", "0.0.0.0"),
		Port:                 getenvDefault("PORT", "5000"),
		CORSOrigins:          splitCSV(getenvDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioCallerNumber:   os.Getenv("TWILIO_CALLER_NUMBER"),
		VoiceWebhookSecret:   os.Getenv("VOICE_WEBHOOK_SECRET"),
		Timezone:             location,
		CheckIntervalSeconds: parseIntEnv("CHECK_INTERVAL_SECONDS", 60),
		AppBaseURL:           getenvDefault("APP_BASE_URL", "http://localhost:5000"),
		LogLevel:             getenvDefault("LOG_LEVEL", "info"),
	}
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func parseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as int: %v", key, value, err)
		return def
	}
	return parsed
}

func splitCSV(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
