package service

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidInput      = errors.New("invalid input")
	ErrQuotaExceeded     = errors.New("annual leave quota exceeded")
	ErrAttachmentFailure = errors.New("attachment failure")
	ErrStorageFailure    = errors.New("storage failure")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// QuotaExceededError carries the figures needed to explain a quota refusal.
type QuotaExceededError struct {
	EmployeeID string
	Year       int
	Cap        int
	Used       int
	Requested  int
	Remaining  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("annual leave quota exceeded for %d: used %d, requested %d, remaining %d of %d",
		e.Year, e.Used, e.Requested, e.Remaining, e.Cap)
}

// Is makes errors.Is(err, ErrQuotaExceeded) match.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

var domainErrors = []error{
	ErrNotFound,
	ErrInvalidDate,
	ErrInvalidInput,
	ErrQuotaExceeded,
	ErrAttachmentFailure,
	ErrStorageFailure,
	ErrInvalidTransition,
}

// classify returns err unchanged when it already belongs to the taxonomy,
// otherwise wraps it as a storage failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

// repoErr maps repository errors: missing rows become ErrNotFound, everything else a storage failure.
func repoErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
