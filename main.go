package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/app"
	"catalog/internal/cache"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/repositories"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("catalog stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Cache = cache.NewRedisProductCache(client, cfg.CacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("product cache enabled")
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return err
		}
		defer mq.Close()
		deps.Events = mq

		if err := mq.ConsumeProductEvents(rabbitmq.AuditQueue, rabbitmq.AuditProductEvent); err != nil {
			log.Error().Err(err).Msg("failed to start product event consumer")
		}
	}

	if !cfg.AuthEnabled {
		log.Warn().Msg("authentication disabled, write routes are public")
	}

	deps.Registry = app.NewRegistry()
	server := app.New(cfg, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.AppPort).Str("store", cfg.DBDriver).Msg("starting server")
		errCh <- server.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

// openStores connects the configured backend and returns its
// repositories with a function releasing the connection.
func openStores(ctx context.Context, cfg *config.Config) (app.Deps, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return app.Deps{}, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}
		return app.Deps{
			Products:   repositories.NewMongoProductRepository(db),
			Categories: repositories.NewMongoCategoryRepository(db),
			Users:      repositories.NewMongoUserRepository(db),
		}, closeFn, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return app.Deps{}, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return app.Deps{
			Products:   repositories.NewGORMProductRepository(db),
			Categories: repositories.NewGORMCategoryRepository(db),
			Users:      repositories.NewGORMUserRepository(db),
		}, closeFn, nil

	case config.DriverMemory:
		deps := app.Deps{
			Products:   repositories.NewMockProductRepository(),
			Categories: repositories.NewMockCategoryRepository(),
			Users:      repositories.NewMockUserRepository(),
		}
		if err := app.Seed(ctx, deps.Categories, deps.Products); err != nil {
			return app.Deps{}, nil, err
		}
		return deps, func() {}, nil

	default:
		return app.Deps{}, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
