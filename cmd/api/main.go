package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/aftersales-service/internal/api/http"
	"github.com/spec-kit/aftersales-service/internal/api/http/handlers"
	"github.com/spec-kit/aftersales-service/internal/config"
	"github.com/spec-kit/aftersales-service/internal/events"
	"github.com/spec-kit/aftersales-service/internal/observability"
	"github.com/spec-kit/aftersales-service/internal/persistence"
	"github.com/spec-kit/aftersales-service/internal/repository"
	"github.com/spec-kit/aftersales-service/internal/service"
	"github.com/spec-kit/aftersales-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	requestRepo := repository.NewRequestRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	costRepo := repository.NewCostRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	sparePartRepo := repository.NewSparePartRepository(pool)
	customStatusRepo := repository.NewCustomStatusRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	requestService := service.NewRequestService(service.RequestDependencies{
		Tx:             pg,
		RequestRepo:    requestRepo,
		ActivityRepo:   activityRepo,
		CostRepo:       costRepo,
		CustomerRepo:   customerRepo,
		ProductRepo:    productRepo,
		DepartmentRepo: departmentRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Dispatcher:       dispatcher,
		Cache:            redis.Handle(),
		CacheTTL:         cfg.Notification.UnreadCacheTTL(),
		Logger:           logger,
	})
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: userRepo})
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		CustomerRepo:     customerRepo,
		ProductRepo:      productRepo,
		DepartmentRepo:   departmentRepo,
		SparePartRepo:    sparePartRepo,
		CustomStatusRepo: customStatusRepo,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Requests:      handlers.NewRequestsHandler(requestService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Users:         handlers.NewUsersHandler(userService),
		Directory:     handlers.NewDirectoryHandler(directoryService),
		TokenManager:  authService.TokenManager(),
		UserRepo:      userRepo,
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
