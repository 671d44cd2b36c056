package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET_KEY", "unit-test-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "intelfeed", cfg.DatabaseName)
	assert.Equal(t, "intelfeed-auth-service", cfg.JWTIssuer)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "if_auth_token", cfg.CookieName)
	assert.Equal(t, "/", cfg.CookiePath)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.CookieHTTPOnly)
	assert.Equal(t, "Lax", cfg.CookieSameSite)
}

func TestLoadConfig_RequiredVariables(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_NormalizesCookieSameSite(t *testing.T) {
	cases := map[string]string{
		"lax":    "Lax",
		"STRICT": "Strict",
		"nOnE":   "None",
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("COOKIE_SAME_SITE", raw)

			cfg, err := LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, want, cfg.CookieSameSite)
		})
	}
}

func TestLoadConfig_RejectsUnknownSameSite(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COOKIE_SAME_SITE", "sideways")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_TokenTTLFallbacks(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "0s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}

func TestLoadConfig_RefreshWindowOutlivesAccessToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("REFRESH_TOKEN_TTL", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
}
