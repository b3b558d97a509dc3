package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/storage"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// Uploader validates, normalises and stores uploaded photos under a random
// name that keeps the original extension.
type Uploader struct {
	storage repository.PhotoStorage
}

func NewUploader(storage repository.PhotoStorage) *Uploader {
	return &Uploader{storage: storage}
}

// Upload returns the public URL of the stored photo.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := Extension(filename)
	if !allowedExtensions[ext] {
		return "", domain.ErrInvalidPhotoType
	}

	data, contentType, err := storage.Normalize(r, ext)
	if errors.Is(err, storage.ErrPhotoTooLarge) {
		return "", domain.ErrPhotoTooLarge
	}
	if err != nil {
		return "", domain.ErrInvalidPhotoType.Withf("photo could not be read as %s", ext)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	url, err := u.storage.Save(ctx, name, contentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return url, nil
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
