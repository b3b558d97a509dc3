package repository

import (
	"context"

	"github.com/jamdate/jamdate-backend/internal/domain"
)

type FavouriteRepository interface {
	// Create fails with domain.ErrFavouriteExists when the edge already exists.
	Create(ctx context.Context, fav *domain.Favourite) error
	Delete(ctx context.Context, userID, favUserID int) error
	// ListTargets returns the users favourited by userID in edge creation order.
	ListTargets(ctx context.Context, userID int) ([]*domain.RankedUser, error)
	// CountByTarget aggregates edges per favourited user. Users without
	// incoming edges are absent.
	CountByTarget(ctx context.Context) ([]*domain.RankedUser, error)
	DeleteByUserID(ctx context.Context, userID int) error
}
