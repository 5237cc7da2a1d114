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
	"go.uber.org/zap"

	"summercamp-backend-go/internal/api"
	"summercamp-backend-go/internal/cache"
	"summercamp-backend-go/internal/config"
	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/events"
	"summercamp-backend-go/internal/middleware"
	"summercamp-backend-go/internal/payment"
)

func newLogger(ginMode string) (*zap.Logger, error) {
	if strings.EqualFold(ginMode, "release") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	zapLogger, err := newLogger(os.Getenv("GIN_MODE"))
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded", zap.String("storeDriver", appConfig.StoreDriver))

	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()

	store, err := db.Open(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zapLogger.Warn("Failed to close document store", zap.Error(err))
		}
	}()
	if err := api.RegisterValidators(store); err != nil {
		zapLogger.Fatal("Failed to register request validators", zap.Error(err))
	}

	var limiter middleware.Limiter
	if appConfig.RedisAddr != "" {
		redisLimiter, err := cache.NewRedisLimiter(initCtx, cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, appConfig.RateLimitRequests, appConfig.RateLimitWindow)
		if err != nil {
			zapLogger.Warn("Rate limiting disabled: Redis unavailable", zap.Error(err))
		} else {
			defer redisLimiter.Close()
			limiter = redisLimiter
			zapLogger.Info("Rate limiting enabled", zap.Int("requests", appConfig.RateLimitRequests), zap.Duration("window", appConfig.RateLimitWindow))
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if appConfig.RabbitMQURL != "" {
		rabbit, err := events.NewRabbitMQ(appConfig.RabbitMQURL, appConfig.PaymentEventsQueue, zapLogger)
		if err != nil {
			zapLogger.Warn("Payment events disabled: RabbitMQ unavailable", zap.Error(err))
		} else {
			publisher = rabbit
		}
	}
	defer publisher.Close()

	if appConfig.PaymentSecretKey == "" {
		zapLogger.Warn("PAYMENT_SECRET_KEY is not set; payment intents will fail")
	}

	userRepo := db.NewUserRepository(store)
	classRepo := db.NewClassRepository(store)
	cartRepo := db.NewCartRepository(store)
	paymentRepo := db.NewPaymentRepository(store)

	services := api.Services{
		Tokens:      core.NewTokenService(appConfig.AccessTokenSecret, appConfig.TokenTTL),
		Users:       core.NewUserService(userRepo),
		Classes:     core.NewClassService(classRepo),
		Instructors: core.NewInstructorService(userRepo, classRepo),
		Carts:       core.NewCartService(cartRepo),
		Payments: core.NewPaymentService(paymentRepo, cartRepo,
			payment.NewStripeIntents(appConfig.PaymentSecretKey), publisher, appConfig.PaymentCurrency, zapLogger),
	}

	if strings.EqualFold(appConfig.GinMode, "release") {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if appConfig.ClientURL == "" {
		zapLogger.Warn("CLIENT_URL is not configured; CORS allows every origin")
	}

	router := api.NewRouter(appConfig, services, api.RouterOptions{
		Limiter:     limiter,
		StoreDriver: appConfig.StoreDriver,
	}, zapLogger)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}
