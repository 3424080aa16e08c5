package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leadgen")
	for _, k := range []string{"PORT", "MAIL_PORT", "RATE_LIMIT_PER_MINUTE", "STALE_JOB_AFTER", "STALE_JOB_INTERVAL", "DB_AUTO_MIGRATE", "CORS_ALLOWED_ORIGINS", "MAIL_HOST", "TRUSTED_PROXIES"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 2*time.Hour, cfg.StaleJobAfter)
	assert.Equal(t, 5*time.Minute, cfg.StaleJobInterval)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MailEnabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leadgen")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("STALE_JOB_AFTER", "45m")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.leadgen.io, http://localhost:5173")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 45*time.Minute, cfg.StaleJobAfter)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, []string{"https://app.leadgen.io", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvCollectsErrors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("STALE_JOB_AFTER", "soon")

	_, err := FromEnv()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DATABASE_URL is required")
	assert.ErrorContains(t, err, "RATE_LIMIT_PER_MINUTE")
	assert.ErrorContains(t, err, "STALE_JOB_AFTER")
}

func TestFromEnvTrustedProxies(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leadgen")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1, 10.1.2.3/16")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
		netip.MustParsePrefix("10.1.0.0/16"),
	}, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, proxy.internal")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}
