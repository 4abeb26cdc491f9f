package service

import (
	"fmt"
	"time"
)

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalendarDays returns the inclusive number of calendar days between start and end.
func CalendarDays(start, end time.Time) int {
	start, end = DateOnly(start), DateOnly(end)
	return int(end.Sub(start).Hours()/24) + 1
}

// CountDays derives the day count of a request.
//
// A supplied count is authoritative but must be positive and no larger than the
// inclusive calendar span; without one the inclusive calendar span is used.
func CountDays(start, end time.Time, supplied *int) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start and end dates are required", ErrInvalidDate)
	}
	if DateOnly(end).Before(DateOnly(start)) {
		return 0, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidDate, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	span := CalendarDays(start, end)
	if supplied == nil {
		return span, nil
	}
	if *supplied <= 0 {
		return 0, fmt.Errorf("%w: day count must be positive, got %d", ErrInvalidDate, *supplied)
	}
	if *supplied > span {
		return 0, fmt.Errorf("%w: day count %d exceeds the %d calendar days requested", ErrInvalidDate, *supplied, span)
	}
	return *supplied, nil
}
