// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
)

// MockStore is an in-memory implementation of database.Store
type MockStore struct {
	mu          sync.RWMutex
	enrollments [][]string
	attendance  []database.AttendanceRecord

	// Now stamps new rows; defaults to time.Now
	Now func() time.Time

	// Error injection
	AddEnrollmentError  error
	AddAttendanceError  error
	GetEnrollmentsError error
	GetAttendanceError  error
}

// NewMockStore creates a new empty mock store
func NewMockStore() *MockStore {
	return &MockStore{Now: time.Now}
}

// SeedEnrollment adds an enrollment row without stamping
func (m *MockStore) SeedEnrollment(name, date, clock string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments = append(m.enrollments, []string{name, date, clock})
}

// SeedAttendance adds an attendance row as-is
func (m *MockStore) SeedAttendance(rec database.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance = append(m.attendance, rec)
}

// AddEnrollment records an enrollment row
func (m *MockStore) AddEnrollment(ctx context.Context, name string) error {
	if m.AddEnrollmentError != nil {
		return m.AddEnrollmentError
	}
	date, clock := database.Stamp(m.Now())
	m.SeedEnrollment(name, date, clock)
	return nil
}

// AddAttendance records an attendance row
func (m *MockStore) AddAttendance(ctx context.Context, name, status string) error {
	if m.AddAttendanceError != nil {
		return m.AddAttendanceError
	}
	if status == "" {
		status = constants.StatusPresent
	}
	date, clock := database.Stamp(m.Now())
	m.SeedAttendance(database.AttendanceRecord{Name: name, Date: date, Time: clock, Status: status})
	return nil
}

// GetAllEnrollments returns unique enrolled names
func (m *MockStore) GetAllEnrollments(ctx context.Context) ([]string, error) {
	if m.GetEnrollmentsError != nil {
		return nil, m.GetEnrollmentsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.enrollments))
	for _, row := range m.enrollments {
		names = append(names, row[0])
	}
	return database.UniqueNames(names), nil
}

// GetAttendanceRecords returns a copy of all attendance rows
func (m *MockStore) GetAttendanceRecords(ctx context.Context) ([]database.AttendanceRecord, error) {
	if m.GetAttendanceError != nil {
		return nil, m.GetAttendanceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]database.AttendanceRecord(nil), m.attendance...), nil
}

// EnrollmentRows returns the raw enrollment rows recorded so far
func (m *MockStore) EnrollmentRows() [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([][]string(nil), m.enrollments...)
}

var _ database.Store = (*MockStore)(nil)
