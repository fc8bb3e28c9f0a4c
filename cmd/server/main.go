package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/api"
	"github.com/Carlvinchi/recipiverse/internal/config"
	"github.com/Carlvinchi/recipiverse/internal/core"
	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/identity"
	"github.com/Carlvinchi/recipiverse/internal/middleware"
	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/places"
	"github.com/Carlvinchi/recipiverse/internal/state"
	"github.com/Carlvinchi/recipiverse/internal/storage"
	"github.com/Carlvinchi/recipiverse/pkg/cache"
	"github.com/Carlvinchi/recipiverse/pkg/mailer"
	"github.com/Carlvinchi/recipiverse/pkg/messagequeue"
)

func main() {
	// .env is a developer convenience; in production everything comes from
	// the real environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	clients, err := db.InitFirebase(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Firestore.Close()
	zapLogger.Info("Firebase Admin SDK initialized", zap.String("projectId", appConfig.FirebaseProjectID))

	gcsClient, err := storage.InitClient(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("failed to initialize Cloud Storage client", zap.Error(err))
	}
	defer gcsClient.Close()

	objectStore, err := storage.NewGCSStore(gcsClient, appConfig.StorageBucket)
	if err != nil {
		zapLogger.Fatal("failed to create object store", zap.Error(err))
	}

	documentStore := db.NewFirestoreStore(clients.Firestore)

	provider, err := identity.NewFirebaseProvider(clients.Auth, appConfig.FirebaseWebAPIKey, nil, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to create identity provider", zap.Error(err))
	}

	// Optional collaborators. A missing address disables the feature
	// rather than failing startup.
	var feedCache cache.Cache
	if appConfig.RedisAddress != "" {
		feedCache, err = cache.NewRedisCache(initCtx, cache.RedisConfig{
			Address:  appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		zapLogger.Info("feed cache enabled", zap.String("address", appConfig.RedisAddress))
	}

	var postQueue messagequeue.MessageQueue
	if appConfig.RabbitMQURL != "" {
		postQueue, err = messagequeue.NewRabbitMQService(messagequeue.RabbitMQConfig{URL: appConfig.RabbitMQURL}, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer postQueue.Close()
		zapLogger.Info("post event queue enabled", zap.String("queue", appConfig.PostEventsQueue))
	}

	var welcomeMailer *mailer.Mailer
	if appConfig.SMTPHost != "" {
		welcomeMailer, err = mailer.New(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.SMTPUsername, appConfig.SMTPPassword, appConfig.MailSender)
		if err != nil {
			zapLogger.Fatal("failed to configure mailer", zap.Error(err))
		}
		zapLogger.Info("welcome mail enabled", zap.String("sender", appConfig.MailSender))
	}

	var placesLookup places.Lookup
	if appConfig.PlacesAPIKey != "" {
		placesLookup, err = places.NewGoogleLookup(appConfig.PlacesAPIKey, appConfig.PlacesRadiusMeters, nil)
		if err != nil {
			zapLogger.Fatal("failed to configure places lookup", zap.Error(err))
		}
	}

	timeout := appConfig.RequestTimeout()

	// One progress channel shared by the upload pipeline, the feed queries
	// and the deletion flows.
	uploadState := state.NewHolder(models.Idle())

	authService := core.NewAuthService(provider, documentStore, welcomeMailer, zapLogger, timeout)
	uploadService := core.NewUploadService(documentStore, objectStore, postQueue, feedCache, uploadState, zapLogger, timeout, appConfig.PostEventsQueue)
	feedService := core.NewFeedService(documentStore, feedCache, uploadState, zapLogger, timeout, appConfig.FeedCacheTTL())
	postService := core.NewPostService(documentStore, objectStore, postQueue, feedCache, uploadState, zapLogger, timeout, appConfig.PostEventsQueue)

	if strings.EqualFold(appConfig.GinMode, "release") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
	} else {
		zapLogger.Warn("CORS middleware skipped: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, zapLogger, clients.Auth, authService, uploadService, feedService, postService, placesLookup)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Port),
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("forced shutdown", zap.Error(err))
	}

	zapLogger.Info("server exited gracefully")
}
