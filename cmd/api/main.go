package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/escalation-service/internal/api/http"
	"github.com/spec-kit/escalation-service/internal/api/http/handlers"
	"github.com/spec-kit/escalation-service/internal/config"
	"github.com/spec-kit/escalation-service/internal/events"
	"github.com/spec-kit/escalation-service/internal/observability"
	"github.com/spec-kit/escalation-service/internal/persistence"
	"github.com/spec-kit/escalation-service/internal/repository"
	"github.com/spec-kit/escalation-service/internal/service"
	"github.com/spec-kit/escalation-service/internal/worker"
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

	store, err := persistence.NewSQLite(cfg.SQLite, logger)
	if err != nil {
		logger.Fatal("failed to open sqlite", zap.Error(err))
	}
	defer store.Close()

	if cfg.SQLite.RunMigrations {
		if err := persistence.RunMigrations(ctx, store.Handle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	if cfg.SQLite.Seed {
		if err := persistence.Seed(ctx, store.Handle(), logger); err != nil {
			logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	db := store.Handle()
	customerRepo := repository.NewCustomerRepository(db)
	requestRepo := repository.NewHelpRequestRepository(db)
	knowledgeRepo := repository.NewKnowledgeBaseRepository(db)

	dispatcher := events.NewInMemoryDispatcher()
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		CustomerRepo:  customerRepo,
		RequestRepo:   requestRepo,
		KnowledgeRepo: knowledgeRepo,
		Dispatcher:    dispatcher,
	})
	knowledgeService := service.NewKnowledgeService(knowledgeRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Requests:  handlers.NewRequestsHandler(escalationService),
		Knowledge: handlers.NewKnowledgeHandler(knowledgeService),
		Customers: handlers.NewCustomersHandler(escalationService),
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
