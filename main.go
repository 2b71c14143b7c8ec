package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"eldato-web/config"
	"eldato-web/database"
	"eldato-web/eldato"
	"eldato-web/jobs"
	"eldato-web/middleware"
	"eldato-web/routes"
	"eldato-web/services"
	"eldato-web/session"
	"eldato-web/utils"
	ws "eldato-web/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := config.AppConfig

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := newSessionManager(cfg)
	if err != nil {
		log.Fatal("Failed to initialize sessions:", err)
	}
	defer database.Close()

	client := eldato.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	assistant := services.NewAssistantService(
		cfg.Assistant.APIKey,
		cfg.Assistant.BaseURL,
		cfg.Assistant.Model,
		cfg.Assistant.Prompt,
		time.Duration(cfg.Assistant.TimeoutSeconds)*time.Second,
	)

	hub := ws.NewHub()
	hub.EnableAssistant(assistant, time.Duration(cfg.Assistant.TimeoutSeconds)*time.Second)
	go hub.Run(ctx)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	deps := routes.Deps{
		Upstream:      func(token string) routes.Upstream { return client.WithToken(token) },
		JWT:           services.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours),
		Sessions:      sessions,
		Hub:           hub,
		Geocoder:      utils.NewGeocoder(cfg.Geocoding.URL, cfg.Geocoding.Country, cfg.Geocoding.UserAgent, 10*time.Second),
		Assistant:     assistant,
		RateLimiter:   rateLimiter,
		Origins:       cfg.Server.AllowedOrigins,
		SecureCookies: cfg.Server.GinMode == "release",
	}

	if cfg.Media.CloudinaryURL != "" {
		media, err := services.NewMediaService(cfg.Media.CloudinaryURL, cfg.Media.Folder)
		if err != nil {
			log.Fatal("Failed to initialize media service:", err)
		}
		deps.Photos = media
	} else {
		log.Println("⚠️ CLOUDINARY_URL not set, service photo uploads are disabled")
	}

	router := routes.SetupRouter(routes.NewHandler(deps))

	// Start background jobs
	cleanupJob := jobs.NewCleanupJob(sessions, rateLimiter, time.Duration(cfg.Session.CleanupMinutes)*time.Minute)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (upstream %s)", cfg.Server.Port, cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown failed: %v", err)
	}
}

// newSessionManager keeps sessions in Postgres when DB_URL is set, in memory otherwise
func newSessionManager(cfg *config.Config) (*session.Manager, error) {
	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour

	if cfg.Database.URL == "" {
		log.Println("⚠️ DB_URL not set, sessions are kept in memory and lost on restart")
		return session.NewManager(session.NewMemoryStore(), ttl, cfg.Session.SearchHistorySize), nil
	}

	if err := database.Initialize(cfg.Database.URL); err != nil {
		return nil, err
	}
	sealer, err := session.NewSealer(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	store := session.NewGormStore(database.GetDB(), sealer)
	return session.NewManager(store, ttl, cfg.Session.SearchHistorySize), nil
}
