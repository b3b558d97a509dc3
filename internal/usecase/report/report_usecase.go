package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jamdate/jamdate-backend/internal/usecase/listing"
	"github.com/jamdate/jamdate-backend/internal/validation"
)

var sortFields = []string{
	string(repository.ReportSortCreatedAt),
	string(repository.ReportSortReporterName),
	string(repository.ReportSortReportedUserName),
	string(repository.ReportSortReason),
}

type SubmitReportRequest struct {
	ReportedUserID int    `json:"reported_user_id" binding:"required"`
	Reason         string `json:"reason" binding:"required,max=500"`
}

type ReportUseCase struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	validate   *validator.Validate
}

func NewReportUseCase(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	validate *validator.Validate,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		validate:   validate,
	}
}

// Submit records an abuse report from reporterID. Reports are append-only.
func (uc *ReportUseCase) Submit(ctx context.Context, reporterID int, req *SubmitReportRequest) (*domain.Report, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}
	if req.ReportedUserID == reporterID {
		return nil, domain.ErrSelfReport
	}
	if _, err := uc.userRepo.GetByID(ctx, req.ReportedUserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, fmt.Errorf("failed to load reported user: %w", err)
	}

	report := &domain.Report{
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
	}
	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return uc.reportRepo.GetByID(ctx, report.ID)
}

// List returns every report, newest first unless sortBy and order say otherwise.
func (uc *ReportUseCase) List(ctx context.Context, sortBy, order string) ([]*domain.Report, error) {
	field := repository.ReportSortCreatedAt
	if sortBy = strings.TrimSpace(sortBy); sortBy != "" {
		field = repository.ReportSortField(sortBy)
		switch field {
		case repository.ReportSortCreatedAt, repository.ReportSortReporterName,
			repository.ReportSortReportedUserName, repository.ReportSortReason:
		default:
			return nil, listing.InvalidSortField(sortFields)
		}
	}

	desc, err := listing.ParseOrder(order, true)
	if err != nil {
		return nil, err
	}
	return uc.reportRepo.List(ctx, field, desc)
}
