package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/member-portal/internal/api/http"
	"github.com/spec-kit/member-portal/internal/api/http/handlers"
	"github.com/spec-kit/member-portal/internal/auth"
	"github.com/spec-kit/member-portal/internal/bootstrap"
	"github.com/spec-kit/member-portal/internal/config"
	"github.com/spec-kit/member-portal/internal/events"
	"github.com/spec-kit/member-portal/internal/observability"
	"github.com/spec-kit/member-portal/internal/persistence"
	"github.com/spec-kit/member-portal/internal/ratelimit"
	"github.com/spec-kit/member-portal/internal/repository"
	"github.com/spec-kit/member-portal/internal/service"
	"github.com/spec-kit/member-portal/internal/worker"
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
	memberRepo := repository.NewMemberRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)

	if pool != nil {
		if err := bootstrap.EnsureAdmin(ctx, *cfg, adminRepo, logger); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	} else {
		logger.Warn("no database connection; skipping admin bootstrap")
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	notifier := service.NewLogNotifier(logger, cfg.Notification)
	limiter := ratelimit.NewOTPSendLimiter(redis.Client, cfg.OTP.SendLimit, cfg.OTP.SendWindow(), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		MemberRepo: memberRepo,
		OTPRepo:    otpRepo,
		Notifier:   notifier,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	profileService := service.NewProfileService(memberRepo)
	adminService := service.NewAdminService(*cfg, service.AdminDependencies{
		AdminRepo:  adminRepo,
		MemberRepo: memberRepo,
		OTPRepo:    otpRepo,
		Dispatcher: dispatcher,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), memberRepo, adminRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService, authService),
		Admin:          handlers.NewAdminHandler(adminService),
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
