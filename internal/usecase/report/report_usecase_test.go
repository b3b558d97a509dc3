package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository/memory"
	"github.com/jamdate/jamdate-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store
	uc    *ReportUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.Tick()
	return &fixture{
		store: store,
		uc:    NewReportUseCase(store.Reports(), store.Users(), validation.New()),
	}
}

func (f *fixture) user(t *testing.T, name string) int {
	t.Helper()
	u := &domain.User{Username: strings.ToLower(name), Name: name, Email: strings.ToLower(name) + "@example.com"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "Alice")
	bob := f.user(t, "Bob")

	report, err := f.uc.Submit(ctx, alice, &SubmitReportRequest{ReportedUserID: bob, Reason: "  spam  "})
	require.NoError(t, err)
	assert.Equal(t, "spam", report.Reason)
	require.NotNil(t, report.ReporterName)
	require.NotNil(t, report.ReportedUserName)
	assert.Equal(t, "Alice", *report.ReporterName)
	assert.Equal(t, "Bob", *report.ReportedUserName)

	tests := []struct {
		name    string
		req     *SubmitReportRequest
		wantErr error
	}{
		{name: "self report", req: &SubmitReportRequest{ReportedUserID: alice, Reason: "x"}, wantErr: domain.ErrSelfReport},
		{name: "unknown target", req: &SubmitReportRequest{ReportedUserID: 9999, Reason: "x"}, wantErr: domain.ErrTargetNotFound},
		{name: "blank reason", req: &SubmitReportRequest{ReportedUserID: bob, Reason: "   "}, wantErr: domain.ErrValidation},
		{name: "reason too long", req: &SubmitReportRequest{ReportedUserID: bob, Reason: strings.Repeat("a", 501)}, wantErr: domain.ErrValidation},
		{name: "missing target", req: &SubmitReportRequest{Reason: "x"}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Submit(ctx, alice, tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "Bob")
	carl := f.user(t, "carl")

	first, err := f.uc.Submit(ctx, alice, &SubmitReportRequest{ReportedUserID: carl, Reason: "b reason"})
	require.NoError(t, err)
	second, err := f.uc.Submit(ctx, carl, &SubmitReportRequest{ReportedUserID: bob, Reason: "A reason"})
	require.NoError(t, err)

	reportIDs := func(reports []*domain.Report) []int {
		out := make([]int, len(reports))
		for i, r := range reports {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name   string
		sortBy string
		order  string
		want   []int
	}{
		{name: "newest first by default", want: []int{second.ID, first.ID}},
		{name: "created_at ascending", sortBy: "created_at", order: "asc", want: []int{first.ID, second.ID}},
		{name: "reporter name", sortBy: "reporter_name", order: "asc", want: []int{first.ID, second.ID}},
		{name: "reported name ignores case", sortBy: "reported_user_name", order: "asc", want: []int{second.ID, first.ID}},
		{name: "reason descending", sortBy: "reason", want: []int{first.ID, second.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports, err := f.uc.List(ctx, tt.sortBy, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reportIDs(reports))
		})
	}

	t.Run("invalid field", func(t *testing.T) {
		_, err := f.uc.List(ctx, "reporter_id", "")
		assert.True(t, errors.Is(err, domain.ErrInvalidSortField))
	})

	t.Run("invalid order", func(t *testing.T) {
		_, err := f.uc.List(ctx, "", "newest")
		assert.True(t, errors.Is(err, domain.ErrInvalidSortOrder))
	})

	t.Run("reports survive user deletion", func(t *testing.T) {
		require.NoError(t, f.store.Users().Delete(ctx, bob))
		reports, err := f.uc.List(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Nil(t, reports[0].ReportedUserName)
	})
}
