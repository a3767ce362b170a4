package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"backoffice/internal/auth"
	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/database/migration"
	handlers "backoffice/internal/http/handler"
	"backoffice/internal/http/middleware"
	"backoffice/internal/logger"
	tracing "backoffice/internal/otel"
	"backoffice/internal/repository/postgres"
	"backoffice/internal/service"
	"backoffice/internal/session"
	"backoffice/internal/storage"
)

const receiptBodyLimit = 10 << 20

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	log := logger.New(cfg.Log, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	sessions := openSessions(ctx, cfg.Redis, log)

	// Receipts are optional; without MinIO the receipt endpoints answer 503.
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		receipts, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize object storage")
		}
		objStore = receipts
	} else {
		log.Warn("minio_not_configured")
	}

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		log.WithError(err).Fatal("invalid jwt configuration")
	}

	agentRepo := postgres.NewAgentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	walletRepo := postgres.NewWalletPostgres(db)
	txRepo := postgres.NewTransactionPostgres(db)
	withdrawalRepo := postgres.NewWithdrawalPostgres(db)
	tradeRepo := postgres.NewTradePostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	settingsRepo := postgres.NewSettingsPostgres(db)
	transactor := database.NewTransactor(db)

	auditor := service.NewAuditor(auditRepo, log)
	authSvc := service.NewAuthService(agentRepo, sessions, tokens, auditor, log)
	svc := handlers.Services{
		Auth:        authSvc,
		Agents:      service.NewAgentService(transactor, agentRepo, userRepo, sessions, auditor),
		Users:       service.NewUserService(transactor, agentRepo, userRepo, txRepo, auditor),
		Wallets:     service.NewWalletService(agentRepo, walletRepo, auditor),
		Withdrawals: service.NewWithdrawalService(transactor, agentRepo, userRepo, walletRepo, txRepo, withdrawalRepo, objStore, auditor, log),
		Trades:      service.NewTradeService(agentRepo, tradeRepo),
		Audit:       service.NewAuditService(auditRepo),
		Settings:    service.NewSettingsService(settingsRepo, auditor),
	}

	if _, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.WithError(err).Fatal("failed to bootstrap admin")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		BodyLimit:             receiptBodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, reg, svc)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("server_shutdown_failed")
		}
	}()

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("server_starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.WithError(err).Warn("tracing_shutdown_failed")
	}
}

// openSessions prefers Redis and falls back to the in-process store when REDIS_ADDR is unset.
func openSessions(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) session.Store {
	if cfg.Addr == "" {
		log.Warn("redis_not_configured: sessions are kept in memory")
		return session.NewMemory()
	}
	store, _, err := session.NewRedis(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	return store
}
