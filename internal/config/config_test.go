package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.AccrualPeriod)
	assert.Equal(t, 365, cfg.PlanDays)
	assert.Equal(t, 10, cfg.ChannelCapacity)
	assert.True(t, cfg.MinWithdrawal.Equal(decimal.RequireFromString("300")))
	assert.True(t, cfg.DailyProfit.Equal(decimal.RequireFromString("100")))
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsBadRanges(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CHECKIN_MIN", "60")
	t.Setenv("CHECKIN_MAX", "10")

	_, err := Load()
	assert.Error(t, err)
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: 5433, DBUser: "app", DBPassword: "pw",
		DBName: "paygrow", DBSSLMode: "disable",
		RedisHost: "redis", RedisPort: "6380",
	}
	assert.Equal(t, "host=db user=app password=pw dbname=paygrow port=5433 sslmode=disable", cfg.DatabaseDSN())
	assert.Equal(t, "redis:6380", cfg.RedisAddr())
}
