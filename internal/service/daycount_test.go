package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestCountDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		supplied *int
		want     int
		wantErr  bool
	}{
		{name: "single day", start: date(2024, 1, 10), end: date(2024, 1, 10), want: 1},
		{name: "inclusive span", start: date(2024, 1, 10), end: date(2024, 1, 15), want: 6},
		{name: "february leap year", start: date(2024, 2, 1), end: date(2024, 2, 29), want: 29},
		{name: "across year end", start: date(2024, 12, 30), end: date(2025, 1, 2), want: 4},
		{name: "across DST change", start: date(2024, 3, 30), end: date(2024, 4, 1), want: 3},
		{name: "supplied count within span", start: date(2024, 1, 8), end: date(2024, 1, 14), supplied: intPtr(5), want: 5},
		{name: "supplied count equal to span", start: date(2024, 2, 1), end: date(2024, 2, 24), supplied: intPtr(24), want: 24},
		{name: "start after end", start: date(2024, 1, 15), end: date(2024, 1, 10), wantErr: true},
		{name: "zero supplied", start: date(2024, 1, 10), end: date(2024, 1, 12), supplied: intPtr(0), wantErr: true},
		{name: "negative supplied", start: date(2024, 1, 10), end: date(2024, 1, 12), supplied: intPtr(-2), wantErr: true},
		{name: "supplied above span", start: date(2024, 1, 10), end: date(2024, 1, 12), supplied: intPtr(4), wantErr: true},
		{name: "missing date", end: date(2024, 1, 12), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountDays(tt.start, tt.end, tt.supplied)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	in := time.Date(2024, 1, 10, 23, 30, 0, 0, loc)
	assert.Equal(t, date(2024, 1, 10), DateOnly(in))
}
