package services

import (
	"testing"
	"time"
)

func TestExpiryCheckerNextRun(t *testing.T) {
	checker := NewExpiryChecker(nil, nil, 3, 9)

	at := func(y int, m time.Month, d, h, min int) time.Time {
		return time.Date(y, m, d, h, min, 0, 0, time.Local)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before the hour runs same day",
			now:  at(2024, time.March, 1, 8, 30),
			want: at(2024, time.March, 1, 9, 0),
		},
		{
			name: "exactly at the hour waits for tomorrow",
			now:  at(2024, time.March, 1, 9, 0),
			want: at(2024, time.March, 2, 9, 0),
		},
		{
			name: "after the hour runs next day",
			now:  at(2024, time.March, 1, 15, 45),
			want: at(2024, time.March, 2, 9, 0),
		},
		{
			name: "rolls over month boundary",
			now:  at(2024, time.February, 29, 23, 0),
			want: at(2024, time.March, 1, 9, 0),
		},
		{
			name: "rolls over year boundary",
			now:  at(2024, time.December, 31, 10, 0),
			want: at(2025, time.January, 1, 9, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.nextRun(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextRun(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
