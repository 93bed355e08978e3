package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/membership-pass/internal/api/http"
	"github.com/spec-kit/membership-pass/internal/api/http/handlers"
	"github.com/spec-kit/membership-pass/internal/auth"
	"github.com/spec-kit/membership-pass/internal/config"
	"github.com/spec-kit/membership-pass/internal/events"
	"github.com/spec-kit/membership-pass/internal/membership"
	"github.com/spec-kit/membership-pass/internal/observability"
	"github.com/spec-kit/membership-pass/internal/pass"
	"github.com/spec-kit/membership-pass/internal/persistence"
	"github.com/spec-kit/membership-pass/internal/repository"
	"github.com/spec-kit/membership-pass/internal/service"
	"github.com/spec-kit/membership-pass/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
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

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("invalid redis configuration", zap.Error(err))
	}
	defer redis.Close()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	pool := pg.PoolHandle()
	profileRepo := repository.NewProfileRepository(pool)
	bmiRepo := repository.NewBMIRepository(pool)
	activityRepo := repository.NewPassActivityRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	stopActivity := worker.StartPassActivityWorker(service.NewPassActivityService(dispatcher, activityRepo, logger))
	defer stopActivity()

	classifier := membership.NewClassifier(cfg.Membership.Window())
	rotator := pass.NewRotator(cfg.Pass.RotationInterval())

	passService := service.NewPassService(service.PassDependencies{
		ProfileRepo: profileRepo,
		Rotator:     rotator,
		Classifier:  classifier,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		ViewTTL:     cfg.Pass.ViewTTL(),
	})
	membershipService := service.NewMembershipService(service.MembershipDependencies{
		ProfileRepo:      profileRepo,
		PassActivityRepo: activityRepo,
		Classifier:       classifier,
		Logger:           logger,
	})
	bmiService := service.NewBMIService(bmiRepo)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTLMinutes)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Membership:     handlers.NewMembershipHandler(membershipService),
		Pass:           handlers.NewPassHandler(passService, rotator.Interval(), cfg.Pass.QRSize, logger),
		BMI:            handlers.NewBMIHandler(bmiService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	}
	if metrics != nil {
		routes.Metrics = metrics.Handler()
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Close open pass views first so streaming responses can finish.
	passService.Shutdown(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
