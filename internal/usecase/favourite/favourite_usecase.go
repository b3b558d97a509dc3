package favourite

import (
	"context"
	"fmt"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

// FavouriteUser is an entry of a user's favourites list.
type FavouriteUser struct {
	domain.User
	Parish    *string `json:"parish"`
	BirthYear *int    `json:"birth_year"`
}

type FavouriteUseCase struct {
	favouriteRepo repository.FavouriteRepository
	userRepo      repository.UserRepository
	topDefault    int
}

func NewFavouriteUseCase(
	favouriteRepo repository.FavouriteRepository,
	userRepo repository.UserRepository,
	topDefault int,
) *FavouriteUseCase {
	return &FavouriteUseCase{
		favouriteRepo: favouriteRepo,
		userRepo:      userRepo,
		topDefault:    topDefault,
	}
}

// Add records that userID favourites targetID.
func (uc *FavouriteUseCase) Add(ctx context.Context, userID, targetID int) (*domain.Favourite, error) {
	if userID == targetID {
		return nil, domain.ErrSelfFavourite
	}
	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	fav := &domain.Favourite{UserID: userID, FavUserID: targetID}
	if err := uc.favouriteRepo.Create(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (uc *FavouriteUseCase) Remove(ctx context.Context, userID, targetID int) error {
	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return uc.favouriteRepo.Delete(ctx, userID, targetID)
}

// FavouritesOf lists the users userID has favourited. Without sortBy the
// entries keep the order the edges were created in.
func (uc *FavouriteUseCase) FavouritesOf(ctx context.Context, userID int, sortBy, order string) ([]*FavouriteUser, error) {
	s, err := ParseSort(sortBy, order, Sort{})
	if err != nil {
		return nil, err
	}

	targets, err := uc.favouriteRepo.ListTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}
	s.Apply(targets)

	users := make([]*FavouriteUser, 0, len(targets))
	for _, t := range targets {
		users = append(users, &FavouriteUser{User: t.User, Parish: t.Parish, BirthYear: t.BirthYear})
	}
	return users, nil
}

// TopFavourited ranks users by incoming favourites and returns the first n
// after sorting. Users nobody favourited are never included.
func (uc *FavouriteUseCase) TopFavourited(ctx context.Context, n int, sortBy, order string) ([]*domain.RankedUser, error) {
	if n <= 0 {
		return nil, domain.ErrInvalidN
	}
	s, err := ParseSort(sortBy, order, Sort{Field: SortFavoriteCount, Desc: true})
	if err != nil {
		return nil, err
	}

	users, err := uc.favouriteRepo.CountByTarget(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count favourites: %w", err)
	}
	s.Apply(users)

	if len(users) > n {
		users = users[:n]
	}
	return users, nil
}

// MostFavourited is TopFavourited with the configured default size.
func (uc *FavouriteUseCase) MostFavourited(ctx context.Context, sortBy, order string) ([]*domain.RankedUser, error) {
	return uc.TopFavourited(ctx, uc.topDefault, sortBy, order)
}
