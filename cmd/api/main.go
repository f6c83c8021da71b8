package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/opsdesk/ticketflow/internal/api/http"
	"github.com/opsdesk/ticketflow/internal/api/http/handlers"
	"github.com/opsdesk/ticketflow/internal/auth"
	"github.com/opsdesk/ticketflow/internal/config"
	"github.com/opsdesk/ticketflow/internal/events"
	"github.com/opsdesk/ticketflow/internal/observability"
	"github.com/opsdesk/ticketflow/internal/persistence"
	"github.com/opsdesk/ticketflow/internal/repository"
	"github.com/opsdesk/ticketflow/internal/service"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	closureRepo := repository.NewClosureCodeRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	collector := observability.NewCollector()
	dispatcher := events.NewInMemoryDispatcher()
	events.NewStreamSink(redis.Client, cfg.Events.Stream, logger).Register(dispatcher)

	workflow := service.NewTicketWorkflowService(service.WorkflowDependencies{
		TxRunner:     persistence.NewTxRunner(pool),
		TicketRepo:   ticketRepo,
		HistoryRepo:  historyRepo,
		SequenceRepo: sequenceRepo,
		CategoryRepo: categoryRepo,
		ClosureRepo:  closureRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
		Collector:    collector,
		Logger:       logger,
	})
	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, collector, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(workflow),
		Meta:           handlers.NewMetaHandler(categoryRepo, closureRepo, departmentRepo),
		AuthMiddleware: authMiddleware,
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
