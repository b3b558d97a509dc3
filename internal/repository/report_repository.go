package repository

import (
	"context"

	"github.com/jamdate/jamdate-backend/internal/domain"
)

// ReportSortField names a column reports can be ordered by.
type ReportSortField string

const (
	ReportSortCreatedAt        ReportSortField = "created_at"
	ReportSortReporterName     ReportSortField = "reporter_name"
	ReportSortReportedUserName ReportSortField = "reported_user_name"
	ReportSortReason           ReportSortField = "reason"
)

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id int) (*domain.Report, error)
	List(ctx context.Context, sortBy ReportSortField, desc bool) ([]*domain.Report, error)
}
