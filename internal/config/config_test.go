package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/hotel")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HOTEL_API_BASE_URL", "http://hotel.test/api")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, 10*time.Second, cfg.HotelAPITimeout)
	assert.Equal(t, time.UTC, cfg.HotelLocation)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HOTEL_TIMEZONE", "Asia/Taipei")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "Asia/Taipei", cfg.HotelLocation.String())
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"Missing DSN", "DB_DSN", ""},
		{"Missing hotel API", "HOTEL_API_BASE_URL", ""},
		{"Bad timezone", "HOTEL_TIMEZONE", "Mars/Olympus"},
		{"Bad duration", "HOTEL_API_TIMEOUT", "soon"},
		{"Bad integer", "DB_MAX_CONNS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
