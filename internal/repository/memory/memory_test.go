package memory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaveapi/internal/model"
	"leaveapi/internal/repository"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.PutEmployee(model.Employee{ID: "e1", DisplayName: "Alice Martin", OrgCode: "IT"})
	s.PutEmployee(model.Employee{ID: "e2", DisplayName: "Bob Durand", OrgCode: "HR"})
	return s
}

func request(id, emp string, start time.Time, days int, chief model.ChiefDecision) *model.LeaveRequest {
	return &model.LeaveRequest{
		ID:            id,
		EmployeeID:    emp,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, days-1),
		DayCount:      days,
		ChiefDecision: chief,
		HRDecision:    model.HRPending,
	}
}

func TestStore_CreateFindDelete(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	_, err := s.Create(ctx, request("r1", "e1", day(2024, 1, 10), 6, model.ChiefPending))
	require.NoError(t, err)

	_, err = s.Create(ctx, request("r2", "ghost", day(2024, 1, 10), 1, model.ChiefPending))
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, s.CreateAttachment(ctx, &model.Attachment{ID: "a1", LeaveRequestID: "r1", UploadedAt: time.Now()}))

	got, err := s.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, got.Attachments, 1)

	require.NoError(t, s.Delete(ctx, "r1"))
	_, err = s.FindAttachment(ctx, "a1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, s.Delete(ctx, "r1"), sql.ErrNoRows)
}

func TestStore_SumApprovedDays(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	for _, r := range []*model.LeaveRequest{
		request("r1", "e1", day(2024, 1, 10), 6, model.ChiefApproved),
		request("r2", "e1", day(2024, 3, 1), 4, model.ChiefApproved),
		request("r3", "e1", day(2024, 5, 1), 9, model.ChiefRejected),
		request("r4", "e1", day(2024, 6, 1), 7, model.ChiefPending),
		request("r5", "e1", day(2023, 12, 30), 5, model.ChiefApproved),
		request("r6", "e2", day(2024, 1, 10), 3, model.ChiefApproved),
	} {
		_, err := s.Create(ctx, r)
		require.NoError(t, err)
	}

	used, err := s.SumApprovedDays(ctx, "e1", 2024)
	require.NoError(t, err)
	assert.Equal(t, 10, used)

	used, err = s.SumApprovedDays(ctx, "e1", 2023)
	require.NoError(t, err)
	assert.Equal(t, 5, used)
}

func TestStore_Listings(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	_, _ = s.Create(ctx, request("r1", "e1", day(2024, 1, 10), 6, model.ChiefApproved))
	_, _ = s.Create(ctx, request("r2", "e1", day(2024, 2, 10), 2, model.ChiefPending))
	_, _ = s.Create(ctx, request("r3", "e2", day(2024, 3, 10), 2, model.ChiefApproved))

	approved := model.ChiefApproved
	mine, err := s.ListByEmployee(ctx, "e1", &approved)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "r1", mine[0].ID)

	none, err := s.ListByEmployee(ctx, "nobody", nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	page, err := s.ListApproved(ctx, repository.PageQuery{Limit: 1, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r3", page.Items[0].ID)
	assert.Equal(t, "Bob Durand", page.Items[0].EmployeeName)

	page, err = s.ListApproved(ctx, repository.PageQuery{Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	org, err := s.ListByOrg(ctx, "IT", nil, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, org.Total)
}

func TestStore_WithEmployeeYearLock_RollsBack(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	_, _ = s.Create(ctx, request("r1", "e1", day(2024, 1, 10), 6, model.ChiefPending))

	boom := errors.New("boom")
	err := s.WithEmployeeYearLock(ctx, "e1", 2024, func(ctx context.Context) error {
		if _, err := s.Create(ctx, request("r2", "e1", day(2024, 2, 1), 3, model.ChiefPending)); err != nil {
			return err
		}
		upd := request("r1", "e1", day(2024, 1, 10), 6, model.ChiefApproved)
		if _, err := s.Update(ctx, upd); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindByID(ctx, "r2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	r1, err := s.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.ChiefPending, r1.ChiefDecision)
}

func TestStore_WithEmployeeYearLock_Nested(t *testing.T) {
	s := seeded(t)
	calls := 0
	err := s.WithEmployeeYearLock(context.Background(), "e1", 2024, func(ctx context.Context) error {
		return s.WithEmployeeYearLock(ctx, "e1", 2024, func(ctx context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
