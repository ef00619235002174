package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "agrofund/pkg/config"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config of the agrofund API process.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig
	Log      struct {
		Level  string
		Format string
	}
	Auth struct {
		JWTSecret string
	}
	Notify struct {
		FunctionURL string
		FunctionKey string
	}
	MQTT struct {
		Enabled bool
		commoncfg.MQTTConfig
	}
	Dashboard struct {
		CacheTTL    time.Duration
		RefreshCron string
	}
	Jobs struct {
		CertExpiryCron   string
		CertExpiryWindow time.Duration
	}
	CertificationValidity time.Duration
	MinWithdrawalAmount   decimal.Decimal
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database = commoncfg.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "postgres",
		Database:        "agrofund",
		SSLMode:         "disable",
		MaxConns:        20,
		MaxIdle:         5,
		ConnMaxLifetime: 30 * time.Minute,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", "")

	cfg.Notify.FunctionURL = getEnv("NOTIFY_FUNCTION_URL", "")
	cfg.Notify.FunctionKey = getEnv("NOTIFY_FUNCTION_KEY", "")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.MQTTConfig = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "agrofund-api",
		QoS:      1,
	}
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")

	cfg.Dashboard.CacheTTL = time.Duration(parseInt(getEnv("DASHBOARD_CACHE_TTL", "300"), 300)) * time.Second
	cfg.Dashboard.RefreshCron = getEnv("DASHBOARD_REFRESH_CRON", "@every 5m")

	cfg.Jobs.CertExpiryCron = getEnv("CERT_EXPIRY_CRON", "0 6 * * *")
	cfg.Jobs.CertExpiryWindow = time.Duration(parseInt(getEnv("CERT_EXPIRY_WINDOW_DAYS", "30"), 30)) * 24 * time.Hour

	cfg.CertificationValidity = time.Duration(parseInt(getEnv("CERTIFICATION_VALIDITY_DAYS", "365"), 365)) * 24 * time.Hour

	cfg.MinWithdrawalAmount = decimal.NewFromInt(10)
	if v, err := decimal.NewFromString(getEnv("MIN_WITHDRAWAL_AMOUNT", "")); err == nil && v.IsPositive() {
		cfg.MinWithdrawalAmount = v
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
