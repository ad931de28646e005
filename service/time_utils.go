package service

import (
	"time"
)

// GetCurrentMonthStart returns midnight UTC on the first day of now's month
func GetCurrentMonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
