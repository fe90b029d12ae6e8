package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/travel")
	t.Setenv("JWT_SECRET", "unit-test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "travel-backend", cfg.JWTIssuer)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "99")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_TTL", "-1h")

	_, err := Load()
	assert.Error(t, err)
}
