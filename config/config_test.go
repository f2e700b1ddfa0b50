package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.DeliveryFee.Equal(decimal.NewFromInt(25)))
	assert.True(t, cfg.SeedMenu)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []byte("s3cret"), cfg.SecretKey())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("DELIVERY_FEE", "32.50")
	t.Setenv("SEED_MENU", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "32.5", cfg.DeliveryFee.String())
	assert.False(t, cfg.SeedMenu)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNegativeFee(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("DELIVERY_FEE", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)

	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	require.NoError(t, cfg.ConfigureLogging())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	cfg.LogLevel = "loud"
	assert.Error(t, cfg.ConfigureLogging())
}
