package listing

import (
	"strings"

	"github.com/jamdate/jamdate-backend/internal/domain"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ParseOrder reports whether order means descending. An empty order falls
// back to defaultDesc.
func ParseOrder(order string, defaultDesc bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return defaultDesc, nil
	case OrderAsc:
		return false, nil
	case OrderDesc:
		return true, nil
	default:
		return false, domain.ErrInvalidSortOrder
	}
}

// InvalidSortField builds the INVALID_SORT_FIELD error listing valid.
func InvalidSortField(valid []string) error {
	return domain.ErrInvalidSortField.Withf("invalid sort_by field. Must be one of: %s", strings.Join(valid, ", "))
}
