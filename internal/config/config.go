package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	BotToken       string
	WebhookBaseURL string
	WebhookSecret  string

	APIKey     string
	ServerPort string

	AdminUserIDs []int64
	DailyChatID  int64
	DailyCron    string
	DailyWindow  time.Duration

	SessionTimeout time.Duration
	PagerExpiry    time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "crackd"),

		BotToken:       getEnv("BOT_TOKEN", ""),
		WebhookBaseURL: getEnv("WEBHOOK_BASE_URL", ""),
		WebhookSecret:  getEnv("WEBHOOK_SECRET", "webhook-secret-change-me"),

		APIKey:     getEnv("API_KEY", "api-key-change-me"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		AdminUserIDs: getEnvIDs("ADMIN_USER_IDS"),
		DailyChatID:  getEnvInt64("DAILY_CHAT_ID", 0),
		DailyCron:    getEnv("DAILY_CRON", "0 14 * * *"),
		DailyWindow:  getEnvDuration("DAILY_WINDOW", 24*time.Hour),

		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 30*time.Minute),
		PagerExpiry:    getEnvDuration("PAGER_EXPIRY", 10*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, val, fallback)
		return fallback
	}
	return d
}

// getEnvIDs parses a comma-separated list of Telegram user ids.
func getEnvIDs(key string) []int64 {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("config: skipping invalid id %q in %s", part, key)
			continue
		}
		ids = append(ids, n)
	}
	return ids
}
