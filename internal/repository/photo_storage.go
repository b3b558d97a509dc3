package repository

import "context"

// PhotoStorage persists uploaded photos and hands back the URL they are
// served from.
type PhotoStorage interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}
