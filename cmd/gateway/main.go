package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/api"
	"github.com/storefront/gateway/internal/core/ports"
	"github.com/storefront/gateway/internal/core/service"
	"github.com/storefront/gateway/internal/infrastructure/db/mongo"
	"github.com/storefront/gateway/internal/infrastructure/db/postgres"
	"github.com/storefront/gateway/internal/infrastructure/db/redis"
	"github.com/storefront/gateway/internal/infrastructure/http/handlers"
	"github.com/storefront/gateway/internal/infrastructure/storage/s3"
	"github.com/storefront/gateway/internal/pkg/config"
	"github.com/storefront/gateway/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-gateway",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Store ---
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	users := postgres.NewFrontUserRepository(pool)
	admins := postgres.NewAdminRepository(pool)
	catalog := postgres.NewCatalogRepository(pool)
	readiness := []handlers.Dependency{{Name: "postgres", Pinger: pool}}

	// --- Blob Service ---
	var blobStore ports.BlobStore
	switch cfg.Blob.Driver {
	case config.BlobDriverS3:
		store := s3.NewStore(s3.NewClient(s3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}), cfg.S3.Bucket)
		blobStore = store
		readiness = append(readiness, handlers.Dependency{Name: "s3", Pinger: store})
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		store := mongo.NewGridFSStore(db, cfg.Mongo.Bucket)
		blobStore = store
		readiness = append(readiness, handlers.Dependency{Name: "gridfs", Pinger: store})
	}

	// --- Key reservation (optional) ---
	var reserver ports.KeyReserver
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		kr := redis.NewKeyReserver(rdb)
		reserver = kr
		readiness = append(readiness, handlers.Dependency{Name: "redis", Pinger: kr})
	} else {
		log.Warn().Msg("REDIS_ADDR not set: uploads of the same filename in one millisecond share a key")
	}

	// --- Services ---
	sessions := service.NewSessionService(postgres.NewSessionRepository(pool), logger.Component("session"))
	authService := service.NewAuthService(users, admins, sessions, service.NewPasswordHasher(cfg.PasswordPepper), logger.Component("auth"))
	catalogService := service.NewCatalogService(users, catalog, logger.Component("catalog"))
	blobService := service.NewBlobService(blobStore, reserver, cfg.MaxUploadBytes, logger.Component("blob"))

	created, err := authService.Bootstrap(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Email, cfg.Bootstrap.Password)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("username", cfg.Bootstrap.Username).Msg("bootstrap super_admin ready")
	}

	e := api.NewRouter(api.Deps{
		Logger:         logger.Component("http"),
		Auth:           authService,
		Catalog:        catalogService,
		Blobs:          blobService,
		Resolver:       service.NewResolver(sessions, users, admins),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Readiness:      readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("blob_driver", cfg.Blob.Driver).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
