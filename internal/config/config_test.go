package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_HOST", "DASHBOARD_CACHE_TTL", "CERTIFICATION_VALIDITY_DAYS", "MIN_WITHDRAWAL_AMOUNT", "MQTT_ENABLED", "DASHBOARD_REFRESH_CRON", "CERT_EXPIRY_CRON", "CERT_EXPIRY_WINDOW_DAYS"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "agrofund", cfg.Database.Database)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "@every 5m", cfg.Dashboard.RefreshCron)
	assert.Equal(t, "0 6 * * *", cfg.Jobs.CertExpiryCron)
	assert.Equal(t, 30*24*time.Hour, cfg.Jobs.CertExpiryWindow)
	assert.Equal(t, 365*24*time.Hour, cfg.CertificationValidity)
	assert.Equal(t, "10", cfg.MinWithdrawalAmount.String())
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("CERTIFICATION_VALIDITY_DAYS", "30")
	t.Setenv("MIN_WITHDRAWAL_AMOUNT", "50.5")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("DASHBOARD_CACHE_TTL", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*24*time.Hour, cfg.CertificationValidity)
	assert.Equal(t, "50.5", cfg.MinWithdrawalAmount.String())
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
}
