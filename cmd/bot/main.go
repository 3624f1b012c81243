package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/guild-setup-service/internal/api/http"
	"github.com/spec-kit/guild-setup-service/internal/api/http/handlers"
	"github.com/spec-kit/guild-setup-service/internal/auth"
	"github.com/spec-kit/guild-setup-service/internal/config"
	"github.com/spec-kit/guild-setup-service/internal/events"
	"github.com/spec-kit/guild-setup-service/internal/observability"
	"github.com/spec-kit/guild-setup-service/internal/persistence"
	"github.com/spec-kit/guild-setup-service/internal/platform"
	"github.com/spec-kit/guild-setup-service/internal/repository"
	"github.com/spec-kit/guild-setup-service/internal/service"
	"github.com/spec-kit/guild-setup-service/internal/ticketing"
	"github.com/spec-kit/guild-setup-service/internal/wizard"
	"github.com/spec-kit/guild-setup-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	memberRepo := repository.NewMemberRepository(pg.PoolHandle(), logger)
	if cfg.Postgres.EnsureSchema {
		if err := memberRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure member schema", zap.Error(err))
		}
	}
	verifiedRoles := repository.NewVerifiedRoleCache(redis.Client)

	platformClient := platform.NewRESTClient(cfg.Platform, logger)
	ticketingClient := ticketing.NewClient(cfg.Ticketing, logger)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	sessions := wizard.NewSessionManager()
	engine := wizard.NewEngine(platformClient, cfg.Wizard.PromptTimeout(), logger)

	provisionService := service.NewProvisionService(service.ProvisionDependencies{
		Client:        platformClient,
		MemberRepo:    memberRepo,
		VerifiedRoles: verifiedRoles,
		Ticketing:     ticketingClient,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	setupService := service.NewSetupService(sessions, engine, provisionService, platformClient, dispatcher, logger)
	resetService := service.NewResetService(platformClient, cfg.Platform.ProtectedChannelID, dispatcher, logger)
	verificationService := service.NewVerificationService(platformClient, memberRepo, verifiedRoles, dispatcher, logger)

	tokenManager := auth.NewTokenManager(cfg.Gateway.JWTSecret, cfg.Gateway.TokenTTLMinutes)
	gatewayMiddleware := auth.NewGatewayMiddleware(tokenManager)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	gatewayHandler := handlers.NewGatewayHandler(setupService, resetService, verificationService, cfg.Platform.CommandPrefix)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            healthHandler,
		Gateway:           gatewayHandler,
		GatewayMiddleware: gatewayMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
