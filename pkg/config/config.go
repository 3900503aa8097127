package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Key for at-rest message encryption, derived once here and injected
	// into the codec so tests can supply their own.
	MessageEncryptionKey string

	MailgunDomain string
	MailgunAPIKey string
	MailFrom      string

	ShopSweepInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		FirebaseProject:      getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:          getEnv("ENVIRONMENT", "development"),
		MessageEncryptionKey: getEnv("MESSAGE_ENCRYPTION_KEY", "greenloop-dev-only-encryption-key"),
		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:        getEnv("MAILGUN_API_KEY", ""),
		MailFrom:             getEnv("MAIL_FROM", "no-reply@greenloop.app"),
		ShopSweepInterval:    time.Duration(getEnvAsInt64("SHOP_SWEEP_INTERVAL_HOURS", 24)) * time.Hour,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
