package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jamdate/jamdate-backend/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

type tokenBlocklist struct {
	client *goredis.Client
}

func NewTokenBlocklist(client *goredis.Client) repository.TokenBlocklist {
	return &tokenBlocklist{client: client}
}

func (b *tokenBlocklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (b *tokenBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}
