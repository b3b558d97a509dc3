package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportOrderClause(t *testing.T) {
	tests := []struct {
		name   string
		sortBy repository.ReportSortField
		desc   bool
		want   string
	}{
		{name: "created_at desc", sortBy: repository.ReportSortCreatedAt, desc: true, want: " ORDER BY r.created_at DESC, r.id DESC"},
		{name: "reason asc", sortBy: repository.ReportSortReason, want: " ORDER BY LOWER(r.reason) ASC, r.id ASC"},
		{name: "reporter name joins live name", sortBy: repository.ReportSortReporterName, want: " ORDER BY LOWER(COALESCE(reporter.name, '')) ASC, r.id ASC"},
		{name: "reported name", sortBy: repository.ReportSortReportedUserName, desc: true, want: " ORDER BY LOWER(COALESCE(reported.name, '')) DESC, r.id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportOrderClause(tt.sortBy, tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportOrderClauseRejectsUnknownField(t *testing.T) {
	_, err := reportOrderClause("id; DROP TABLE reports", false)
	assert.True(t, errors.Is(err, domain.ErrInvalidSortField))
}

func TestProfileColumns(t *testing.T) {
	assert.True(t, strings.HasPrefix(profileColumns(""), "id, user_id, description"))
	assert.True(t, strings.HasPrefix(profileColumns("p"), "p.id, p.user_id, p.description"))
	assert.Equal(t, len(profileColumnNames), strings.Count(profileColumns("p"), "p."))
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `50\% \_off\\`, likeEscaper.Replace(`50% _off\`))
}
