package user

import (
	"context"
	"fmt"
	"io"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jamdate/jamdate-backend/internal/usecase/photo"
)

type UserUseCase struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	favouriteRepo repository.FavouriteRepository
	tx            repository.Transactor
	uploader      *photo.Uploader
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	favouriteRepo repository.FavouriteRepository,
	tx repository.Transactor,
	uploader *photo.Uploader,
) *UserUseCase {
	return &UserUseCase{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		favouriteRepo: favouriteRepo,
		tx:            tx,
		uploader:      uploader,
	}
}

func (uc *UserUseCase) List(ctx context.Context) ([]*domain.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *UserUseCase) Get(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// Delete removes the user with their profiles and favourite edges in both
// directions. Reports that mention the user are kept.
func (uc *UserUseCase) Delete(ctx context.Context, userID int) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.LockByID(ctx, userID); err != nil {
			return err
		}
		if err := uc.favouriteRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete favourites: %w", err)
		}
		if err := uc.profileRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete profiles: %w", err)
		}
		return uc.userRepo.Delete(ctx, userID)
	})
}

func (uc *UserUseCase) UploadPhoto(ctx context.Context, userID int, filename string, r io.Reader) (*domain.User, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	url, err := uc.uploader.Upload(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdatePhoto(ctx, userID, url); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}
