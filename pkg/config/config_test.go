package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUMMARY_STORE", StoreMemory)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "summaries", cfg.FirestoreCollection)
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
	assert.False(t, cfg.UsesFirebase())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUMMARY_STORE", StoreMongo)
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("FIREBASE_AUTH", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.UsesFirebase())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			SummaryStore:     StoreMemory,
			JWTAccessExpiry:  time.Minute,
			JWTRefreshExpiry: time.Hour,
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.SummaryStore = StorePostgres
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg = base()
	cfg.SummaryStore = StoreFirestore
	assert.ErrorContains(t, cfg.Validate(), "FIREBASE_PROJECT_ID")

	cfg = base()
	cfg.SummaryStore = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "unknown SUMMARY_STORE")

	cfg = base()
	cfg.JWTAccessExpiry = 0
	assert.Error(t, cfg.Validate())
}
