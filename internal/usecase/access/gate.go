package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

// Gate decides whether a principal may use profile-gated features. It is
// evaluated on every request since completeness changes between requests.
type Gate struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewGate(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *Gate {
	return &Gate{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// IsGated reports whether userID owns at least one complete profile.
func (g *Gate) IsGated(ctx context.Context, userID int) (bool, error) {
	ok, err := g.profileRepo.HasCompleteProfile(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check profile completeness: %w", err)
	}
	return ok, nil
}

// Check loads the principal and fails with ErrIncompleteProfile unless it
// is gated in. A principal whose user no longer exists is treated the same.
func (g *Gate) Check(ctx context.Context, userID int) error {
	if _, err := g.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrIncompleteProfile
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := g.IsGated(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrIncompleteProfile
	}
	return nil
}
