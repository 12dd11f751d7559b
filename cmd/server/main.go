package main

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/yimtarbiyat/amal-backend/internal/auth"
	"github.com/yimtarbiyat/amal-backend/internal/config"
	"github.com/yimtarbiyat/amal-backend/internal/database"
	"github.com/yimtarbiyat/amal-backend/internal/handlers"
	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/middleware"
	"github.com/yimtarbiyat/amal-backend/internal/routes"
	"github.com/yimtarbiyat/amal-backend/internal/services"
	"github.com/yimtarbiyat/amal-backend/internal/store"
	"github.com/yimtarbiyat/amal-backend/pkg/clientip"
)

func main() {
	// Load env
	envErr := godotenv.Load()
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.IsProduction()}); err != nil {
		panic(err)
	}
	if envErr != nil {
		logger.Info("No .env file found")
	}

	var (
		repo store.Repository
		kv   services.KV
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("⚠️  STORAGE_DRIVER=memory: data is lost on restart")
		repo = store.NewMemory()
		kv = services.NewMemoryKV()

	default:
		// Connect to PostgreSQL (profiles)
		logger.Info("Connecting to PostgreSQL...")
		if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
			logger.Fatal("Failed to connect to PostgreSQL", "err", err)
		}
		defer database.DisconnectPostgres()

		// Connect to Redis (sessions, analytics cache)
		logger.Info("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			logger.Fatal("Failed to connect to Redis", "err", err)
		}
		defer database.DisconnectRedis()

		// Connect to MongoDB (submissions)
		if err := database.Connect(cfg.MongoURI); err != nil {
			logger.Error("Failed to connect to MongoDB", "err", err)
			logger.Info("Troubleshooting tips:")
			logger.Info("1. Check if your IP is whitelisted in MongoDB Atlas")
			logger.Info("2. Verify your connection string format (should use mongodb+srv:// for Atlas)")
			logger.Info("3. Ensure username and password are correct")
			logger.Fatal("MongoDB unavailable")
		}
		defer database.Disconnect()

		submissions := store.NewMongoSubmissions(database.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := submissions.EnsureIndexes(ctx); err != nil {
			logger.Warn("⚠️  WARNING: failed to ensure MongoDB submission indexes", "err", err)
		} else {
			logger.Info("✅ MongoDB submission indexes ensured")
		}
		cancel()

		repo = store.Split{
			UserStore:       store.NewPostgresUsers(database.PostgresDB),
			SubmissionStore: submissions,
		}
		kv = services.NewRedisKV(database.RedisClient)
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		logger.Warn("⚠️  WARNING: GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET not set. Sign-in will not work.")
	}
	if len(cfg.InitialAdminEmails) == 0 {
		logger.Warn("⚠️  WARNING: INITIAL_ADMIN_EMAILS not set. Nobody will be made admin on first sign-in.")
	}

	clock := services.Clock{Location: cfg.Location}
	cache := services.NewCacheService(kv)
	sessions := services.NewSessionManager(kv, repo, cfg.InitialAdminEmails)

	h := &handlers.Handler{
		Submissions:   services.NewSubmissionService(repo, cache, clock),
		Admin:         services.NewAdminService(repo, cache, cfg.AnalyticsCacheTTL, clock),
		Sessions:      sessions,
		Identity:      auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		FrontendURL:   cfg.FrontendURL,
		SecureCookies: cfg.IsProduction(),
	}

	clientip.TrustProxy = cfg.TrustProxy

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.GlobalRateLimit())

	// Production: security headers and strict host check on top of the per-IP limit
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		logger.Info("✅ Production security enabled", "host", cfg.AllowedHost)
	}

	routes.SetupRoutes(r, h, sessions)

	logger.Info("📋 Registered routes:")
	chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logger.Info("  " + method + " " + route)
		return nil
	})

	logger.Info("🚀 Amal backend running", "port", cfg.Port, "storage", cfg.StorageDriver, "timezone", cfg.Location.String())
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("Failed to start server", "err", err)
	}
}
