package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-for-jwt")
}

func TestLoad_Defaults(t *testing.T) {
	// Arrange
	setRequired(t)

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Kiosk.SampleInterval)
	assert.Equal(t, 2*time.Second, cfg.Kiosk.Throttle)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
}

func TestLoad_CollectsInvalidValues(t *testing.T) {
	// Arrange
	setRequired(t)
	t.Setenv("APP_PORT", "eighty")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	// Act
	_, err := Load()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "BACKEND_TIMEOUT")
}

func TestLoad_RequiresSecret(t *testing.T) {
	// Arrange
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "")

	// Act
	cfg, err := Load()
	require.NoError(t, err)
	err = cfg.Validate()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestConfig_ValidateKiosk(t *testing.T) {
	cfg := &Config{Kiosk: KioskConfig{CameraURL: "http://camera.local/snapshot.jpg"}}
	assert.ErrorContains(t, cfg.ValidateKiosk(), "KIOSK_PAYRUN_ID")

	cfg.Kiosk.PayRunID = "pr-1"
	cfg.Backend.ServiceToken = "svc"
	assert.NoError(t, cfg.ValidateKiosk())
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{App: AppConfig{LogLevel: "debug"}}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{App: AppConfig{LogLevel: "loud"}}).SlogLevel())
}

func TestConfig_SessionStore(t *testing.T) {
	t.Run("memory store needs no database", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "test-secret-key-for-jwt")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("SESSION_STORE", "Memory")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, StoreMemory, cfg.Session.Store)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown store", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SESSION_STORE", "sqlite")

		cfg, err := Load()
		require.NoError(t, err)

		assert.ErrorContains(t, cfg.Validate(), "SESSION_STORE")
	})
}
