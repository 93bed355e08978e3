package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, time.Second, cfg.Pass.RotationInterval())
	assert.Equal(t, 5*time.Minute, cfg.Pass.ViewTTL())
	assert.Equal(t, 256, cfg.Pass.QRSize)
	assert.Equal(t, 30*24*time.Hour, cfg.Membership.Window())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PASS_ROTATION_INTERVAL_MS", "250")
	t.Setenv("PASS_VIEW_TTL_SECONDS", "0")
	t.Setenv("MEMBERSHIP_WINDOW_DAYS", "365")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("AUTH_ISSUER", "https://auth.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 250*time.Millisecond, cfg.Pass.RotationInterval())
	assert.Zero(t, cfg.Pass.ViewTTL())
	assert.Equal(t, 365*24*time.Hour, cfg.Membership.Window())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "https://auth.example.com", cfg.Auth.Issuer)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("rotation interval", func(t *testing.T) {
		t.Setenv("PASS_ROTATION_INTERVAL_MS", "-5")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("window", func(t *testing.T) {
		t.Setenv("MEMBERSHIP_WINDOW_DAYS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestRequestTimeout(t *testing.T) {
	assert.Zero(t, AppConfig{}.RequestTimeout())
	assert.Equal(t, 3*time.Second, AppConfig{RequestTimeoutSeconds: 3}.RequestTimeout())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{
		App:        AppConfig{Env: "Production"},
		Auth:       AuthConfig{JWTSecret: devJWTSecret},
		Pass:       PassConfig{RotationIntervalMS: 0, QRSize: 16},
		Membership: MembershipConfig{WindowDays: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"PASS_ROTATION_INTERVAL_MS", "PASS_QR_SIZE", "MEMBERSHIP_WINDOW_DAYS", "AUTH_JWT_SECRET"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := Load()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}
