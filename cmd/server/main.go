package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	authpkg "github.com/mmynk/meetpoint/internal/auth"
	"github.com/mmynk/meetpoint/internal/broadcast"
	"github.com/mmynk/meetpoint/internal/broadcast/redispub"
	"github.com/mmynk/meetpoint/internal/handler"
	"github.com/mmynk/meetpoint/internal/service"
	"github.com/mmynk/meetpoint/internal/storage/sqlite"
	"github.com/mmynk/meetpoint/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/meetpoint.db")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	jwtSecret := getEnv("JWT_SECRET", "")
	inviteBaseURL := getEnv("INVITE_BASE_URL", "https://meetpoint.app/join")
	addr := ":" + getEnv("PORT", "8080")

	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	publisher := redispub.New(redisClient)
	slog.Info("Broadcast publisher initialized", "redis", redisAddr)

	coordinator := broadcast.NewCoordinator(store, store, store, publisher)

	jwtManager := authpkg.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := authpkg.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager)
	sessionService := service.NewSessionService(store, coordinator, inviteBaseURL)
	locationService := service.NewLocationService(store, coordinator)

	router := handler.NewRouter(
		jwtManager,
		handler.NewAuthHandler(authService),
		handler.NewSessionHandler(sessionService),
		handler.NewLocationHandler(locationService),
	)

	// h2c allows HTTP/2 without TLS for clients that speak it.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
