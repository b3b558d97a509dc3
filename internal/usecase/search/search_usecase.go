package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

// SearchRequest holds the raw query parameters. Empty values are ignored.
type SearchRequest struct {
	Name      string `form:"name"`
	BirthYear string `form:"birth_year"`
	Sex       string `form:"sex"`
	Race      string `form:"race"`
}

type SearchUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewSearchUseCase(profileRepo repository.ProfileRepository) *SearchUseCase {
	return &SearchUseCase{profileRepo: profileRepo}
}

// Search finds profiles of users other than callerID. Name matches any part
// of the owner's display name ignoring case; the other filters are exact.
func (uc *SearchUseCase) Search(ctx context.Context, callerID int, req *SearchRequest) ([]*domain.ProfileWithName, error) {
	filter := repository.ProfileSearch{
		ExcludeUserID: callerID,
		Name:          strings.TrimSpace(req.Name),
		Sex:           strings.TrimSpace(req.Sex),
		Race:          strings.TrimSpace(req.Race),
	}

	if by := strings.TrimSpace(req.BirthYear); by != "" {
		year, err := strconv.Atoi(by)
		if err != nil {
			return nil, domain.ErrInvalidParameter.Withf("birth_year must be an integer")
		}
		filter.BirthYear = &year
	}

	return uc.profileRepo.Search(ctx, filter)
}
