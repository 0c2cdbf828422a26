package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"foxx-popup-service/internal/application"
	apiinfra "foxx-popup-service/internal/infrastructure/api"
	"foxx-popup-service/internal/infrastructure/cache"
	"foxx-popup-service/internal/infrastructure/encryption"
	securitymiddleware "foxx-popup-service/internal/infrastructure/middleware"
	"foxx-popup-service/internal/infrastructure/notifier"
	"foxx-popup-service/internal/infrastructure/repository"
	shopifyinfra "foxx-popup-service/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(os.Getenv("MONGODB_DATABASE"))

	// Get encryption key
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}

	encryptionService, err := encryption.NewService(encryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Connect to Redis for the public config cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redislib.NewClient(&redislib.Options{Addr: redisAddr})
	configCache := cache.NewRedisCache(redisClient)

	// Initialize repositories
	storeRepo := repository.NewMongoStoreRepository(db)
	configRepo := repository.NewMongoPopupConfigRepository(db)
	subscriberRepo := repository.NewMongoSubscriberRepository(db)
	sessionRepo := repository.NewMongoSessionRepository(db)

	// Initialize the commerce client
	commerceClient := shopifyinfra.NewClient(
		os.Getenv("SHOPIFY_API_KEY"),
		os.Getenv("SHOPIFY_API_SECRET"),
		logger,
	)

	// Verification fetch timeout
	verifyTimeout := application.DefaultVerifyTimeout
	if raw := os.Getenv("VERIFY_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			verifyTimeout = time.Duration(secs) * time.Second
		}
	}

	// Initialize application services
	scriptService := application.NewScriptService(storeRepo, logger)
	verifyService := application.NewVerifyService(storeRepo, verifyTimeout, logger)
	popupService := application.NewPopupService(storeRepo, configRepo, configCache, logger)
	commerceService := application.NewCommerceService(storeRepo, commerceClient, encryptionService, logger)
	subscriberService := application.NewSubscriberService(
		storeRepo,
		configRepo,
		subscriberRepo,
		notifier.NewLogNotifier(logger),
		commerceService,
		logger,
	)

	// Initialize handlers
	publicHandler := apiinfra.NewPublicHandler(popupService, subscriberService, appURL, logger)
	adminHandler := apiinfra.NewAdminHandler(
		storeRepo,
		scriptService,
		verifyService,
		popupService,
		subscriberService,
		commerceService,
		appURL,
		logger,
	)

	// Background sweep for expired admin sessions
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				removed, err := sessionRepo.DeleteExpired(sweepCtx, time.Now())
				if err != nil {
					logger.Error().Err(err).Msg("Session sweep failed")
					continue
				}
				if removed > 0 {
					logger.Info().Int64("removed", removed).Msg("Swept expired sessions")
				}
			}
		}
	}()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.MetricsMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(securitymiddleware.AuthMiddleware(storeRepo, sessionRepo, logger))

	// Public routes
	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Popup runtime and the surface it calls
	r.Get("/js/foxx-popup.js", publicHandler.HandleRuntimeScript)
	r.Get("/api/popup-config/{storeID}", publicHandler.HandlePopupConfig)
	r.Post("/api/subscribe/{storeID}", publicHandler.HandleSubscribe)
	r.Post("/api/unsubscribe/{storeID}", publicHandler.HandleUnsubscribe)
	r.Get("/api/stores/{storeID}/check-subscription/{email}", publicHandler.HandleCheckSubscription)

	// Admin routes (auth required)
	r.Get("/api/stores/{storeID}/integration-script", adminHandler.HandleIntegrationScript)
	r.Get("/api/stores/{storeID}/verify-installation", adminHandler.HandleVerifyInstallation)
	r.Get("/api/stores/{storeID}/popup-config", adminHandler.HandleGetPopupConfig)
	r.Put("/api/stores/{storeID}/popup-config", adminHandler.HandlePutPopupConfig)
	r.Get("/api/stores/{storeID}/subscribers", adminHandler.HandleListSubscribers)
	r.Post("/api/stores/{storeID}/commerce/verify", adminHandler.HandleCommerceVerify)
	r.Get("/api/stores/{storeID}/commerce/discount/{code}", adminHandler.HandleCommerceDiscount)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
