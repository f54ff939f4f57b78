package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/readquest/library-system/internal/api"
	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/infrastructure/config"
	mongodb "github.com/readquest/library-system/internal/infrastructure/db/mongo"
	redisdb "github.com/readquest/library-system/internal/infrastructure/db/redis"
	"github.com/readquest/library-system/internal/infrastructure/queue"
	"github.com/readquest/library-system/internal/infrastructure/storage"
	"github.com/readquest/library-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Library System API
// @version      1.0
// @description  Gamified book lending service with XP based level progression.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "library-system",
		Pretty:  cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	progressRepo := mongodb.NewProgressRepository(db)
	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{userRepo, bookRepo, progressRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	seedAdmin(ctx, userRepo, cfg, log)

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}

	ledgerRepo := mongodb.NewLedgerRepository(db)
	dispatcher := queue.NewDispatcher(cfg.XPWorkers, ledgerRepo, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, sink, dispatcher, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedAdmin ensures the configured admin account exists. Startup continues on
// failure so a transient error does not keep the service down.
func seedAdmin(ctx context.Context, repo *mongodb.UserRepository, cfg *config.Config, log zerolog.Logger) {
	if cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("admin seed: hashing failed")
		return
	}

	_, err = repo.Create(ctx, &domain.User{
		Username:     cfg.Admin.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		log.Debug().Str("username", cfg.Admin.Username).Msg("admin account already present")
	case err != nil:
		log.Error().Err(err).Msg("admin seed failed")
	default:
		log.Info().Str("username", cfg.Admin.Username).Msg("admin account created")
	}
}

func buildSink(ctx context.Context, cfg *config.Config) (storage.Sink, error) {
	switch cfg.Storage.Driver {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Sink(s3.NewFromConfig(awsCfg), cfg.Storage.S3Bucket), nil
	default:
		return storage.NewDiskSink(cfg.Storage.UploadDir)
	}
}
