package notifyfn

import (
	"os"
	"strconv"
	"time"
)

// Config of the notification function process.
type Config struct {
	Addr            string
	ProviderURL     string
	ProviderAPIKey  string
	From            string
	SharedKey       string
	ProviderTimeout time.Duration
	LogLevel        string
	LogFormat       string
	AllowedOrigin   string
}

func LoadConfig() Config {
	return Config{
		Addr:            getEnv("NOTIFY_ADDR", ":8081"),
		ProviderURL:     getEnv("EMAIL_PROVIDER_URL", "https://api.resend.com"),
		ProviderAPIKey:  getEnv("EMAIL_API_KEY", ""),
		From:            getEnv("EMAIL_FROM", "AgroFund <notifications@agrofund.app>"),
		SharedKey:       getEnv("NOTIFY_SHARED_KEY", ""),
		ProviderTimeout: time.Duration(getEnvInt("EMAIL_PROVIDER_TIMEOUT_SECONDS", 15)) * time.Second,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		AllowedOrigin:   getEnv("NOTIFY_ALLOWED_ORIGIN", "*"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
