package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/yukikurage/organization-directory-api/internal/config"
	"github.com/yukikurage/organization-directory-api/internal/constants"
	"github.com/yukikurage/organization-directory-api/internal/database"
	"github.com/yukikurage/organization-directory-api/internal/handlers"
	"github.com/yukikurage/organization-directory-api/internal/middleware"
	"github.com/yukikurage/organization-directory-api/internal/observability"
	"github.com/yukikurage/organization-directory-api/internal/repository"
	"github.com/yukikurage/organization-directory-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, nil)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Instrument(metrics))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Redis store")
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	orgService := services.NewOrganizationService(repository.NewOrganizationRepository(db), metrics)
	authService := services.NewAuthService(repository.NewUserRepository(db))

	authHandler := handlers.NewAuthHandler(authService, log)
	orgHandler := handlers.NewOrganizationHandler(orgService, log)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.RegisterRoutes(r, authHandler, orgHandler)

	// Start server
	log.WithField("addr", cfg.Addr()).Info("Server starting")
	if err := r.Run(cfg.Addr()); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
