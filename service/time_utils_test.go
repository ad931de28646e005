package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentMonthStart(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "mid month",
			now:      time.Date(2024, time.March, 17, 9, 30, 0, 0, time.UTC),
			expected: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "first instant",
			now:      time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "local evening already next month in UTC",
			now:      time.Date(2024, time.January, 31, 22, 0, 0, 0, est),
			expected: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetCurrentMonthStart(tt.now))
		})
	}
}
