package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "carniceria.db", cfg.DBPath)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 120*time.Second, cfg.BizumExpiry)
	assert.Equal(t, 15*time.Second, cfg.BizumConfirmDelay)
	assert.Equal(t, 30, cfg.CheckoutRateLimit)
	assert.Equal(t, time.Minute, cfg.CheckoutRateWindow)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpire)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("BIZUM_EXPIRY_SEC", "300")
	t.Setenv("BIZUM_CONFIRM_DELAY_SEC", "30")
	t.Setenv("JWT_EXPIRE_HOURS", "48")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 300*time.Second, cfg.BizumExpiry)
	assert.Equal(t, 30*time.Second, cfg.BizumConfirmDelay)
	assert.Equal(t, 48*time.Hour, cfg.JWTExpire)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("expiry no numérico", func(t *testing.T) {
		t.Setenv("BIZUM_EXPIRY_SEC", "luego")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("delay mayor que expiry", func(t *testing.T) {
		t.Setenv("BIZUM_EXPIRY_SEC", "60")
		t.Setenv("BIZUM_CONFIRM_DELAY_SEC", "90")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("rate limit cero", func(t *testing.T) {
		t.Setenv("CHECKOUT_RATE_LIMIT", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
