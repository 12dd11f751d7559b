package config

import (
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	MongoURI       string
	PostgresURI    string
	RedisURI       string
	StorageDriver  string   // STORAGE_DRIVER: mongo (Mongo + Postgres) or memory
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment    string   // ENV: production, development, etc.
	Host           string   // Raw HOST env (e.g. https://api.amal.example.org)
	AllowedHost    string   // Hostname only for strict host check (production only)
	TrustProxy     bool     // TRUST_PROXY: take client IPs from X-Forwarded-For

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// InitialAdminEmails are granted admin when their profile is first created.
	InitialAdminEmails []string
	// Location decides which calendar date "today" is.
	Location          *time.Location
	AnalyticsCacheTTL time.Duration

	LogLevel string
	LogFile  string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseList(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	port := getEnv("PORT", "8080")
	host := getEnv("HOST", "http://localhost:"+port)

	// host check is skipped outside production
	var allowedHost string
	if env == "production" {
		allowedHost = hostname(host)
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/amal")),
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/amal?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		StorageDriver:  parseDriver(getEnv("STORAGE_DRIVER", StorageMongo)),
		Environment:    env,
		Port:           port,
		Host:           host,
		AllowedHost:    allowedHost,
		TrustProxy:     parseBool(getEnv("TRUST_PROXY", "false")),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:"+port+"/api/auth/google/callback"),

		InitialAdminEmails: lowerAll(parseList(getEnv("INITIAL_ADMIN_EMAILS", ""))),
		Location:           parseLocation(getEnv("TIMEZONE", "UTC")),
		AnalyticsCacheTTL:  parseDuration(getEnv("ANALYTICS_CACHE_TTL", "5m"), 5*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// hostname strips scheme, port and path: "https://api.x.org:443/v1" is "api.x.org".
func hostname(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "//" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func lowerAll(list []string) []string {
	for i, v := range list {
		list[i] = strings.ToLower(v)
	}
	return list
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseDriver(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), StorageMemory) {
		return StorageMemory
	}
	return StorageMongo
}

// parseLocation falls back to UTC when the zone is unknown.
func parseLocation(name string) *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// IsInitialAdmin reports whether email is listed in INITIAL_ADMIN_EMAILS.
func (c *Config) IsInitialAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range c.InitialAdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
