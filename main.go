package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"usergroups/internal/app"
	"usergroups/internal/config"
	"usergroups/internal/database"
	"usergroups/internal/logger"
	"usergroups/internal/services"
	"usergroups/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".")
	if err != nil {
		bootLog := logger.New("info", "json", os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		return err
	}

	if cfg.AdminLogin != "" && cfg.AdminPassword != "" {
		stored, err := services.NewPasswordHasher(cfg.PasswordHashing).Hash(cfg.AdminPassword)
		if err != nil {
			return err
		}
		seeded, err := database.SeedAdmin(ctx, db, cfg.AdminLogin, stored)
		if err != nil {
			return err
		}
		if seeded {
			log.Info().Str("login", cfg.AdminLogin).Msg("seeded bootstrap user")
		}
	}

	deps := app.Dependencies{DB: db, Config: cfg, Log: log}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		deps.Events = mqClient

		auditLog := log.With().Str("component", "audit").Logger()
		if err := mqClient.ConsumeEvents(ctx, rabbitmq.AuditHandler(auditLog)); err != nil {
			log.Error().Err(err).Msg("failed to start audit consumer")
		}
	}

	// --- Redis (optional) ---
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, login rate limit fails open")
		}
		deps.RateStore = rdb
	}

	server := app.New(deps)

	// --- Start HTTP Server ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.AppPort).Msg("starting server")
		errCh <- server.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}
