package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withEnv(t *testing.T, values map[string]string) {
	t.Helper()
	prev := Env
	Env = values
	t.Cleanup(func() { Env = prev })
}

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	withEnv(t, map[string]string{"APP_PORT": "4100"})
	t.Setenv("APP_PORT", "9999")

	assert.Equal(t, "4100", GetEnv("APP_PORT", "4000"))
}

func TestGetEnvFallsBackToProcessEnv(t *testing.T) {
	withEnv(t, map[string]string{})
	t.Setenv("DB_HOST", "db.internal")

	assert.Equal(t, "db.internal", GetEnv("DB_HOST", "127.0.0.1"))
	assert.Equal(t, "fallback", GetEnv("UNSET_KEY_FOR_TEST", "fallback"))
}

func TestTypedGetters(t *testing.T) {
	withEnv(t, map[string]string{
		"CACHE_INVALIDATE_PAGES": "12",
		"BROKEN_INT":             "twelve",
		"CRON_ENABLED":           "off",
		"CACHE_TTL":              "90",
		"MEETINGS_TIMEOUT":       "2s",
		"UPLOAD_MAX_BYTES":       "52428800",
	})

	assert.Equal(t, 12, GetEnvInt("CACHE_INVALIDATE_PAGES", 10))
	assert.Equal(t, 7, GetEnvInt("BROKEN_INT", 7))
	assert.False(t, GetEnvBool("CRON_ENABLED", true))
	assert.True(t, GetEnvBool("MISSING_BOOL", true))
	assert.Equal(t, 90*time.Second, GetEnvDuration("CACHE_TTL", time.Hour))
	assert.Equal(t, 2*time.Second, GetEnvDuration("MEETINGS_TIMEOUT", 10*time.Second))
	assert.Equal(t, int64(52428800), GetEnvInt64("UPLOAD_MAX_BYTES", 1))
}
