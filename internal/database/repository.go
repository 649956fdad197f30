package database

import (
	"context"
)

// EnrollmentReader provides read-only access to enrollment rows
type EnrollmentReader interface {
	// GetAllEnrollments returns enrolled names in first-enrollment order, without duplicates
	GetAllEnrollments(ctx context.Context) ([]string, error)
}

// EnrollmentWriter records enrollments
type EnrollmentWriter interface {
	// AddEnrollment appends a [name, date, time] row stamped with the current time
	AddEnrollment(ctx context.Context, name string) error
}

// AttendanceReader provides read-only access to attendance rows
type AttendanceReader interface {
	// GetAttendanceRecords returns all complete attendance rows in insertion order
	GetAttendanceRecords(ctx context.Context) ([]AttendanceRecord, error)
}

// AttendanceWriter records attendance events
type AttendanceWriter interface {
	// AddAttendance appends a [name, date, time, status] row stamped with the current time
	AddAttendance(ctx context.Context, name, status string) error
}

// Store is the full set of enrollment and attendance operations a backend provides
type Store interface {
	EnrollmentReader
	EnrollmentWriter
	AttendanceReader
	AttendanceWriter
}
