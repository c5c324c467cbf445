package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/adapters/postgres"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/adapters/processor"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/adapters/secrets"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/auth"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/config"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	disputeHandler "github.com/NoussaierSalaani/smuppy-dispute-service/internal/handlers/dispute"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/middleware"
	disputeService "github.com/NoussaierSalaani/smuppy-dispute-service/internal/services/dispute"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/logging"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/observability"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting dispute service",
		zap.String("version", "0.1.0"),
	)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	dbPool, err := initDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbPool.Close()

	logger.Info("Database connection established",
		zap.String("database", cfg.Database.Database),
	)

	secretManager, err := initSecretManager(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secret manager", zap.Error(err))
	}

	jwtManager, err := initJWTManager(ctx, cfg, secretManager)
	if err != nil {
		logger.Fatal("Failed to initialize JWT manager", zap.Error(err))
	}

	router, limiters := buildRouter(dbPool, cfg, jwtManager, logger)
	defer limiters.shutdown()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	healthChecker := observability.NewHealthChecker(dbPool)
	metricsServer := observability.StartMetricsServer(
		strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Servers stopped")
}

// rateLimiters owns the two throttle pools so shutdown stops their
// cleanup goroutines.
type rateLimiters struct {
	read  *middleware.RateLimiter
	write *middleware.RateLimiter
}

func (l rateLimiters) shutdown() {
	l.read.Shutdown()
	l.write.Shutdown()
}

// buildRouter wires repositories, services, middleware and handlers.
func buildRouter(dbPool *pgxpool.Pool, cfg *config.Config, jwtManager *auth.JWTManager, logger *zap.Logger) (http.Handler, rateLimiters) {
	loggerAdapter := logging.NewZapLogger(logger)

	dbExecutor := postgres.NewDBExecutor(dbPool)
	disputeRepo := postgres.NewDisputeRepository(dbExecutor)
	evidenceRepo := postgres.NewEvidenceRepository(dbExecutor)
	timelineRepo := postgres.NewTimelineRepository(dbExecutor)
	refundRepo := postgres.NewRefundRepository(dbExecutor)
	notificationRepo := postgres.NewNotificationRepository(dbExecutor)

	refundGateway := processor.NewRefundAdapterWithDefaults(processor.Config{
		BaseURL: cfg.Processor.BaseURL,
		APIKey:  cfg.Processor.APIKey,
		Timeout: cfg.Processor.Timeout,
	}, loggerAdapter)

	evidenceSvc := disputeService.NewEvidenceService(
		dbExecutor, disputeRepo, evidenceRepo, timelineRepo, notificationRepo, loggerAdapter)
	resolutionSvc := disputeService.NewResolutionService(
		dbExecutor, disputeRepo, refundRepo, timelineRepo, notificationRepo,
		refundGateway, cfg.Ops.AlertRecipient, loggerAdapter)
	closureSvc := disputeService.NewClosureService(
		dbExecutor, disputeRepo, timelineRepo, notificationRepo, loggerAdapter)
	querySvc := disputeService.NewQueryService(
		dbExecutor, disputeRepo, evidenceRepo, timelineRepo, refundRepo, loggerAdapter)

	limiters := rateLimiters{
		read:  middleware.NewRateLimiter(cfg.RateLimit.ReadRPS, cfg.RateLimit.ReadBurst),
		write: middleware.NewRateLimiter(cfg.RateLimit.WriteRPS, cfg.RateLimit.WriteBurst),
	}

	router := disputeHandler.NewRouter(disputeHandler.RouterDeps{
		Handler:      disputeHandler.NewHandler(evidenceSvc, closureSvc, querySvc, loggerAdapter),
		AdminHandler: disputeHandler.NewAdminHandler(resolutionSvc, querySvc, loggerAdapter),
		Auth:         middleware.NewAuthMiddleware(jwtManager, loggerAdapter),
		WriteLimiter: limiters.write,
		ReadLimiter:  limiters.read,
		Security:     middleware.NewSecurityHeaders(cfg.Logger.Development),
		Metrics:      observability.Middleware(),
		Logger:       loggerAdapter,
	})

	return router, limiters
}

// initLogger initializes the logger
func initLogger() *zap.Logger {
	env := getEnv("ENVIRONMENT", "development")

	if env == "production" {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		logger, _ := zapCfg.Build()
		return logger
	}

	logger, _ := zap.NewDevelopment()
	return logger
}

// initDatabase initializes the PostgreSQL connection pool
func initDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// initSecretManager selects the secrets backend from configuration
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Secrets.Backend {
	case "aws":
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.Secrets.Region)
		awsCfg.Profile = cfg.Secrets.Profile
		awsCfg.Endpoint = cfg.Secrets.Endpoint
		return secrets.NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)
	case "local":
		return secrets.NewLocalSecretManager(cfg.Secrets.LocalPrefix, logger), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Secrets.Backend)
	}
}

// initJWTManager fetches the RSA signing key and builds the token manager
func initJWTManager(ctx context.Context, cfg *config.Config, secretManager ports.SecretManager) (*auth.JWTManager, error) {
	secret, err := secretManager.GetSecret(ctx, cfg.Auth.PrivateKeySecret)
	if err != nil {
		return nil, fmt.Errorf("fetch JWT signing key: %w", err)
	}
	return auth.NewJWTManager([]byte(secret.Value), cfg.Auth.Issuer, cfg.Auth.TokenExpiry)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
