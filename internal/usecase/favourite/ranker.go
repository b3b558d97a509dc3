package favourite

import (
	"sort"
	"strings"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/usecase/listing"
)

// SortField names an attribute ranked users can be ordered by.
type SortField string

const (
	SortName          SortField = "name"
	SortParish        SortField = "parish"
	SortBirthYear     SortField = "birth_year"
	SortFavoriteCount SortField = "favorite_count"
)

var sortFields = []string{
	string(SortName),
	string(SortParish),
	string(SortBirthYear),
	string(SortFavoriteCount),
}

// Sort is a parsed ordering. An empty Field keeps storage order.
type Sort struct {
	Field SortField
	Desc  bool
}

// ParseSort validates sortBy and order, falling back to def for empty values.
func ParseSort(sortBy, order string, def Sort) (Sort, error) {
	s := def
	if sortBy = strings.TrimSpace(sortBy); sortBy != "" {
		switch SortField(sortBy) {
		case SortName, SortParish, SortBirthYear, SortFavoriteCount:
			s.Field = SortField(sortBy)
		default:
			return Sort{}, listing.InvalidSortField(sortFields)
		}
	}

	desc, err := listing.ParseOrder(order, def.Desc)
	if err != nil {
		return Sort{}, err
	}
	s.Desc = desc
	return s, nil
}

// Apply sorts users in place. The sort is stable in both directions so
// equal keys keep their storage order. Strings compare case-insensitively,
// a missing string sorts as "" and a missing number as 0.
func (s Sort) Apply(users []*domain.RankedUser) {
	if s.Field == "" {
		return
	}
	cmp := compareFunc(s.Field)
	sort.SliceStable(users, func(i, j int) bool {
		c := cmp(users[i], users[j])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareFunc(field SortField) func(a, b *domain.RankedUser) int {
	switch field {
	case SortName:
		return func(a, b *domain.RankedUser) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortParish:
		return func(a, b *domain.RankedUser) int {
			return strings.Compare(lower(a.Parish), lower(b.Parish))
		}
	case SortBirthYear:
		return func(a, b *domain.RankedUser) int {
			return compareInt(intOrZero(a.BirthYear), intOrZero(b.BirthYear))
		}
	default:
		return func(a, b *domain.RankedUser) int {
			return compareInt(a.FavoriteCount, b.FavoriteCount)
		}
	}
}

func lower(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(*s)
}

func intOrZero(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
