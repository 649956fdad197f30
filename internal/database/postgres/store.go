package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
)

// AttendanceRepository provides PostgreSQL-backed enrollment and attendance storage
// with the same row semantics as the spreadsheet backend.
type AttendanceRepository struct {
	pool *Pool
	loc  *time.Location
	now  func() time.Time
}

// NewAttendanceRepository creates a new AttendanceRepository stamping rows in loc
func NewAttendanceRepository(pool *Pool, loc *time.Location) *AttendanceRepository {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceRepository{pool: pool, loc: loc, now: time.Now}
}

// SetClock replaces the time source used to stamp rows
func (r *AttendanceRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *AttendanceRepository) stamp() (string, string) {
	return database.Stamp(r.now().In(r.loc))
}

func (r *AttendanceRepository) AddEnrollment(ctx context.Context, name string) error {
	date, clock := r.stamp()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (name, date, time) VALUES ($1, $2, $3)`,
		name, date, clock)
	if err != nil {
		return fmt.Errorf("add enrollment: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) AddAttendance(ctx context.Context, name, status string) error {
	if status == "" {
		status = constants.StatusPresent
	}
	date, clock := r.stamp()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attendance (name, date, time, status) VALUES ($1, $2, $3, $4)`,
		name, date, clock, status)
	if err != nil {
		return fmt.Errorf("add attendance: %w", err)
	}
	return nil
}

// GetAllEnrollments returns distinct names ordered by their first enrollment
func (r *AttendanceRepository) GetAllEnrollments(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name FROM enrollments GROUP BY name ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return database.UniqueNames(names), nil
}

func (r *AttendanceRepository) GetAttendanceRecords(ctx context.Context) ([]database.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, date, time, status FROM attendance ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	records := []database.AttendanceRecord{}
	for rows.Next() {
		var rec database.AttendanceRecord
		if err := rows.Scan(&rec.Name, &rec.Date, &rec.Time, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return records, nil
}

var _ database.Store = (*AttendanceRepository)(nil)
