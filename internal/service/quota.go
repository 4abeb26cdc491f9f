package service

import (
	"context"
	"fmt"

	"leaveapi/internal/repository"
)

// Balance is an employee's quota position for one calendar year.
type Balance struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Cap        int    `json:"cap"`
	Used       int    `json:"used"`
	Remaining  int    `json:"remaining"`
}

// QuotaLedger answers "how many approved days has this employee used in year Y".
// It never writes.
type QuotaLedger struct {
	repo repository.LeaveRequestRepository
	cap  int
}

// NewQuotaLedger constructs a ledger enforcing capDays approved days per year.
func NewQuotaLedger(repo repository.LeaveRequestRepository, capDays int) *QuotaLedger {
	return &QuotaLedger{repo: repo, cap: capDays}
}

// Cap returns the annual quota.
func (q *QuotaLedger) Cap() int {
	return q.cap
}

// UsedDays sums the day counts of chief-approved requests starting in year.
func (q *QuotaLedger) UsedDays(ctx context.Context, employeeID string, year int) (int, error) {
	used, err := q.repo.SumApprovedDays(ctx, employeeID, year)
	if err != nil {
		return 0, fmt.Errorf("%w: sum approved days: %w", ErrStorageFailure, err)
	}
	return used, nil
}

// RemainingDays is cap minus used. It goes negative when the cap was lowered after approvals.
func (q *QuotaLedger) RemainingDays(ctx context.Context, employeeID string, year int) (int, error) {
	used, err := q.UsedDays(ctx, employeeID, year)
	if err != nil {
		return 0, err
	}
	return q.cap - used, nil
}

// CheckQuota returns a *QuotaExceededError when used+requested exceeds the cap.
func (q *QuotaLedger) CheckQuota(ctx context.Context, employeeID string, year, requested int) error {
	_, err := q.check(ctx, employeeID, year, requested, 0)
	return err
}

// Balance reports cap, used and remaining days for one year.
func (q *QuotaLedger) Balance(ctx context.Context, employeeID string, year int) (*Balance, error) {
	used, err := q.UsedDays(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	return &Balance{
		EmployeeID: employeeID,
		Year:       year,
		Cap:        q.cap,
		Used:       used,
		Remaining:  q.cap - used,
	}, nil
}

// check is CheckQuota with exclude days removed from the used total, for
// re-validating a request that already counts against the quota. It returns
// the used total after exclusion.
func (q *QuotaLedger) check(ctx context.Context, employeeID string, year, requested, exclude int) (int, error) {
	used, err := q.UsedDays(ctx, employeeID, year)
	if err != nil {
		return 0, err
	}
	used -= exclude
	if used+requested > q.cap {
		return used, &QuotaExceededError{
			EmployeeID: employeeID,
			Year:       year,
			Cap:        q.cap,
			Used:       used,
			Requested:  requested,
			Remaining:  q.cap - used,
		}
	}
	return used, nil
}
