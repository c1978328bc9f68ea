package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/config"
	"github.com/noah-isme/socrates-echo-api/internal/database"
	"github.com/noah-isme/socrates-echo-api/internal/handler"
	"github.com/noah-isme/socrates-echo-api/internal/middleware"
	"github.com/noah-isme/socrates-echo-api/internal/repository"
	"github.com/noah-isme/socrates-echo-api/internal/router"
	"github.com/noah-isme/socrates-echo-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis disabled: scratch store and redis relay are off")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	scratch := repository.NewScratchRepository(redisClient, "scratch", cfg.ScratchTTL)

	channel := ""
	if redisClient != nil || natsConn != nil {
		channel = cfg.NotificationChannel
	}
	hub := service.NewNotificationHub(redisClient, natsConn, channel, logger)
	hub.Start(ctx)

	registry := service.NewWorkspaceRegistry(service.WorkspaceRegistryConfig{
		IdleTTL:      cfg.SessionIdleTTL,
		LoginLatency: cfg.LoginLatency,
		Notifications: service.NotificationAggregatorConfig{
			MaxRetained:  cfg.MaxRetainedNotifications,
			PreviewLimit: cfg.NotificationPreviewLimit,
		},
	}, scratch, hub, validate, logger)
	go registry.Run(ctx)

	authenticator, err := service.NewAuthenticator(service.DefaultDemoAccounts, validate, logger)
	if err != nil {
		log.Fatalf("failed to build authenticator: %v", err)
	}

	issuer, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to build token issuer: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:     &logger,
		AccessLogs: cfg.AppEnv != "production",
	})
	router.Register(app, cfg, router.Dependencies{
		Workspaces:          registry,
		WorkspaceHandler:    handler.NewWorkspaceHandler(registry, issuer, validate, logger),
		SessionHandler:      handler.NewSessionHandler(authenticator, validate, logger),
		NavigationHandler:   handler.NewNavigationHandler(validate, logger),
		NotificationHandler: handler.NewNotificationHandler(hub, validate, logger, cfg.StreamKeepAlive),
		ClassHandler:        handler.NewClassHandler(logger),
		WorkspaceAuth:       middleware.WorkspaceAuth(issuer, registry),
		LoginRateLimit:      middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Msg("server started")
	waitForShutdown(ctx, app)
}

func waitForShutdown(ctx context.Context, app *fiber.App) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
