package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DefaultTokenTTL, cfg.JWTTTL)
	assert.Equal(t, 31556926*time.Second, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_PORT", "8081")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("STORE_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "JWT_SECRET is not configured")
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
		msg  string
	}{
		{"bad ttl", "JWT_TTL", "forever", "parse JWT_TTL"},
		{"bad cost", "BCRYPT_COST", "ten", "parse BCRYPT_COST"},
		{"cost too high", "BCRYPT_COST", "40", "BCRYPT_COST must be between"},
		{"bad timeout", "STORE_TIMEOUT", "-1s", "STORE_TIMEOUT must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret")
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
