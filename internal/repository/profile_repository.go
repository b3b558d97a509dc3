package repository

import (
	"context"

	"github.com/jamdate/jamdate-backend/internal/domain"
)

// ProfileSearch holds the optional filters of a profile search.
type ProfileSearch struct {
	ExcludeUserID int
	Name          string
	BirthYear     *int
	Sex           string
	Race          string
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id int) (*domain.Profile, error)
	// GetByIDForUpdate reads the profile and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int) (*domain.Profile, error)
	GetWithName(ctx context.Context, id int) (*domain.ProfileWithName, error)
	Update(ctx context.Context, profile *domain.Profile) error
	CountByUserID(ctx context.Context, userID int) (int, error)
	HasCompleteProfile(ctx context.Context, userID int) (bool, error)
	// ListLatest returns the newest profiles first.
	ListLatest(ctx context.Context, limit int) ([]*domain.ProfileWithName, error)
	// ListByOtherUsers returns every profile not owned by userID in storage order.
	ListByOtherUsers(ctx context.Context, userID int) ([]*domain.ProfileWithName, error)
	Search(ctx context.Context, filter ProfileSearch) ([]*domain.ProfileWithName, error)
	DeleteByUserID(ctx context.Context, userID int) error
}
