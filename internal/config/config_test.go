package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SignedURLTTL)
	assert.Equal(t, "pet-documents", cfg.S3BucketName)
	assert.False(t, cfg.S3UseSSL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://mypetid.app")
	t.Setenv("SIGNED_URL_TTL_SECONDS", "3600")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://mypetid.app", cfg.PublicBaseURL)
	assert.Equal(t, time.Hour, cfg.SignedURLTTL)
	assert.True(t, cfg.S3UseSSL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SIGNED_URL_TTL_SECONDS", "soon")

	_, err := Load()
	assert.Error(t, err)
}
