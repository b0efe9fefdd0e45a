package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vortechron/go-itemmedia/auth"
	"github.com/vortechron/go-itemmedia/config"
	"github.com/vortechron/go-itemmedia/conversion"
	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/medialibrary"
	"github.com/vortechron/go-itemmedia/repository"
	"github.com/vortechron/go-itemmedia/storage"
)

const mediaDisk = "media"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level, err := medialibrary.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := medialibrary.NewSlogLogger(slogger, level)

	ctx := context.Background()
	gw, err := openGateway(cfg)
	errAndDie(slogger, err)

	disks := storage.NewDiskManager()
	disk, err := openDisk(ctx, cfg)
	errAndDie(slogger, err)
	disks.AddDisk(mediaDisk, disk)

	transformer := conversion.NewImagingTransformer()
	transformer.RegisterUploadConversion(cfg.MaxImageWidth)

	identity, err := identityFromSession(cfg)
	errAndDie(slogger, err)

	cli := commandLine{
		gw:       gw,
		identity: identity,
		out:      os.Stdout,
		options: []medialibrary.Option{
			medialibrary.WithLogger(logger),
			medialibrary.WithSyncConcurrency(cfg.SyncConcurrency),
			medialibrary.WithUploader(medialibrary.NewUploader(disks, mediaDisk, transformer, logger)),
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			slogger.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}

func openGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo := repository.NewGormGateway(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return gateway.NewHTTPGateway(gateway.HTTPConfig{
			BaseURL: cfg.PlatformURL,
			Token:   cfg.PlatformToken,
		})
	}
}

func openDisk(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.MediaDisk {
	case config.DiskS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			BaseURL:   cfg.S3BaseURL,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalMediaPath,
			BaseURL:  cfg.LocalMediaURL,
		})
	}
}

// identityFromSession resolves the acting user from ITEMMEDIA_SESSION.
// Read-only commands work without one.
func identityFromSession(cfg *config.Config) (*auth.Identity, error) {
	if cfg.SessionToken == "" {
		return nil, nil
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required to verify ITEMMEDIA_SESSION")
	}
	return auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer).Verify(cfg.SessionToken)
}

func errAndDie(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
}
