package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

// Names are joined at read time so renamed users show their current name.
const reportSelect = `
	SELECT r.id, r.reporter_id, r.reported_user_id, r.reason, r.created_at,
	       reporter.name AS reporter_name,
	       reported.name AS reported_user_name
	FROM reports r
	LEFT JOIN users reporter ON reporter.id = r.reporter_id
	LEFT JOIN users reported ON reported.id = r.reported_user_id
`

var reportSortExpressions = map[repository.ReportSortField]string{
	repository.ReportSortCreatedAt:        "r.created_at",
	repository.ReportSortReporterName:     "LOWER(COALESCE(reporter.name, ''))",
	repository.ReportSortReportedUserName: "LOWER(COALESCE(reported.name, ''))",
	repository.ReportSortReason:           "LOWER(r.reason)",
}

// reportOrderClause builds the ORDER BY clause from the whitelist above.
func reportOrderClause(sortBy repository.ReportSortField, desc bool) (string, error) {
	expr, ok := reportSortExpressions[sortBy]
	if !ok {
		return "", domain.ErrInvalidSortField
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return " ORDER BY " + expr + " " + direction + ", r.id " + direction, nil
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (reporter_id, reported_user_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query, report.ReporterID, report.ReportedUserID, report.Reason).
		Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id int) (*domain.Report, error) {
	var report domain.Report
	err := conn(ctx, r.db).GetContext(ctx, &report, reportSelect+` WHERE r.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, sortBy repository.ReportSortField, desc bool) ([]*domain.Report, error) {
	order, err := reportOrderClause(sortBy, desc)
	if err != nil {
		return nil, err
	}
	reports := []*domain.Report{}
	err = conn(ctx, r.db).SelectContext(ctx, &reports, reportSelect+order)
	return reports, err
}
