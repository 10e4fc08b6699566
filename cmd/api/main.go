package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/kb"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	permCache := auth.NewPermissionCache(redis.ClientHandle(), cfg.Auth.PermissionCacheTTL())
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:        userRepo,
		RoleRepo:        roleRepo,
		PermissionCache: permCache,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		CommentRepo:   commentRepo,
		ReferenceRepo: referenceRepo,
		CategoryRepo:  categoryRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
	})
	userService := service.NewUserService(userRepo, roleRepo, cfg.Auth.BcryptCost)
	roleService := service.NewRoleService(roleRepo, permCache)
	categoryService := service.NewCategoryService(categoryRepo)

	mailer := service.NewLogMailer(logger, cfg.Notification.EmailFrom)
	notificationService := service.NewNotificationService(dispatcher, userRepo, mailer, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	kbStore, err := kb.NewStore(cfg.KB.ArticlesDir)
	if err != nil {
		logger.Fatal("failed to init knowledge base store", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, commentService),
		References:     handlers.NewReferencesHandler(ticketService),
		Users:          handlers.NewUsersHandler(userService),
		Roles:          handlers.NewRolesHandler(roleService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		KB:             handlers.NewKBHandler(kbStore),
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
