package match

import (
	"context"
	"fmt"
	"math"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

const (
	maxBirthYearGap = 5
	minHeightGap    = 3.0
	maxHeightGap    = 10.0
	minSharedTraits = 3
)

type MatchUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewMatchUseCase(profileRepo repository.ProfileRepository) *MatchUseCase {
	return &MatchUseCase{profileRepo: profileRepo}
}

// FindMatches returns every profile of another user that is compatible with
// the caller's profile, in storage order. Calls are read-only.
func (uc *MatchUseCase) FindMatches(ctx context.Context, userID, profileID int) ([]*domain.ProfileWithName, error) {
	source, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !source.IsOwnedBy(userID) {
		return nil, domain.ErrNotOwner
	}

	candidates, err := uc.profileRepo.ListByOtherUsers(ctx, source.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	matches := []*domain.ProfileWithName{}
	for _, c := range candidates {
		if IsMatch(source, &c.Profile) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// IsMatch applies the age, height and shared-trait rules. Profiles missing a
// birth year or height never match.
func IsMatch(source, candidate *domain.Profile) bool {
	if source.BirthYear == nil || candidate.BirthYear == nil ||
		source.Height == nil || candidate.Height == nil {
		return false
	}

	yearGap := *source.BirthYear - *candidate.BirthYear
	if yearGap < 0 {
		yearGap = -yearGap
	}
	if yearGap > maxBirthYearGap {
		return false
	}

	heightGap := math.Abs(*source.Height - *candidate.Height)
	if heightGap < minHeightGap || heightGap > maxHeightGap {
		return false
	}

	return SharedTraits(source, candidate) >= minSharedTraits
}

// SharedTraits counts the traits both profiles set to the same value. A
// trait unset on either side never counts.
func SharedTraits(a, b *domain.Profile) int {
	n := 0
	for _, pair := range [][2]*string{
		{a.FavCuisine, b.FavCuisine},
		{a.FavColour, b.FavColour},
		{a.FavSchoolSubject, b.FavSchoolSubject},
	} {
		if pair[0] != nil && pair[1] != nil && *pair[0] == *pair[1] {
			n++
		}
	}
	for _, pair := range [][2]*bool{
		{a.Political, b.Political},
		{a.Religious, b.Religious},
		{a.FamilyOriented, b.FamilyOriented},
	} {
		if pair[0] != nil && pair[1] != nil && *pair[0] == *pair[1] {
			n++
		}
	}
	return n
}
