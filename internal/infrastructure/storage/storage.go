package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// New builds the photo backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (repository.PhotoStorage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		logger.Info("using local photo storage", "path", cfg.Path)
		return NewLocalStorage(cfg.Path, cfg.PublicURL)
	case TypeS3:
		logger.Info("using s3 photo storage", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
