package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "PORT", "STORAGE_DRIVER", "ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2",
		"TIMEZONE", "ANALYTICS_CACHE_TTL", "INITIAL_ADMIN_EMAILS", "GOOGLE_REDIRECT_URL", "HOST", "TRUST_PROXY"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
	assert.Equal(t, "http://localhost:8080/api/auth/google/callback", cfg.GoogleRedirectURL)
	assert.Empty(t, cfg.InitialAdminEmails)
	assert.Equal(t, "http://localhost:8080", cfg.Host)
	assert.Empty(t, cfg.AllowedHost, "no host check outside production")
	assert.False(t, cfg.TrustProxy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("ALLOWED_ORIGINS", "https://amal.example.org, http://localhost:3000,")
	t.Setenv("TIMEZONE", "Asia/Dhaka")
	t.Setenv("ANALYTICS_CACHE_TTL", "90s")
	t.Setenv("INITIAL_ADMIN_EMAILS", "Imam@Example.org, admin@example.org")
	t.Setenv("HOST", "https://api.amal.example.org:8443/v1")
	t.Setenv("TRUST_PROXY", "Yes")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"https://amal.example.org", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "Asia/Dhaka", cfg.Location.String())
	assert.Equal(t, 90*time.Second, cfg.AnalyticsCacheTTL)
	assert.True(t, cfg.IsInitialAdmin("imam@example.org"))
	assert.True(t, cfg.IsInitialAdmin(" ADMIN@example.org"))
	assert.False(t, cfg.IsInitialAdmin("someone@example.org"))
	assert.False(t, cfg.IsInitialAdmin(""))
	assert.Equal(t, "api.amal.example.org", cfg.AllowedHost)
	assert.True(t, cfg.TrustProxy)
}

func TestHostname(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://api.amal.example.org", "api.amal.example.org"},
		{"http://localhost:8080", "localhost"},
		{"api.amal.example.org/health", "api.amal.example.org"},
		{" amal.example.org:443 ", "amal.example.org"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, hostname(tt.raw))
		})
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("TIMEZONE", "Nowhere/Special")
	t.Setenv("ANALYTICS_CACHE_TTL", "soon")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	cfg := Load()
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
}
