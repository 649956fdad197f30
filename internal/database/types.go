package database

import (
	"time"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
)

// AttendanceRecord is one attendance row
type AttendanceRecord struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// Summary is the dashboard view of today's attendance
type Summary struct {
	TotalEnrolled int      `json:"total_enrolled"`
	TodayPresent  int      `json:"today_present"`
	TodayAbsent   int      `json:"today_absent"`
	AbsentUsers   []string `json:"absent_users"`
}

// Stamp formats t as the date and time columns of a row
func Stamp(t time.Time) (date, clock string) {
	return t.Format(constants.DateLayout), t.Format(constants.TimeLayout)
}

// Today returns the date column value for now in loc
func Today(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format(constants.DateLayout)
}
