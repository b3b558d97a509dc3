package repository

import (
	"context"
	"time"
)

// TokenBlocklist remembers revoked access tokens until they expire.
type TokenBlocklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
