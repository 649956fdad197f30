// Package sheets stores enrollment and attendance rows in a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
)

// valueInputRaw stores values exactly as sent, without formula or date parsing.
const valueInputRaw = "RAW"

// Store appends and reads rows through the Sheets v4 values API.
// Enrollment rows are [name, date, time]; attendance rows are [name, date, time, status].
// The first row of each sheet is a header and is skipped on read.
type Store struct {
	service         *sheets.Service
	spreadsheetID   string
	enrollmentSheet string
	attendanceSheet string
	loc             *time.Location
	now             func() time.Time
}

// New creates a store authenticated with the service account file from cfg.
func New(ctx context.Context, cfg *config.SheetsConfig, loc *time.Location) (*Store, error) {
	return NewWithOptions(ctx, cfg, loc,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// NewWithOptions creates a store with explicit client options (endpoint, HTTP client, credentials).
func NewWithOptions(ctx context.Context, cfg *config.SheetsConfig, loc *time.Location, opts ...option.ClientOption) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is required")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Sheets client: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		service:         svc,
		spreadsheetID:   cfg.SpreadsheetID,
		enrollmentSheet: cfg.EnrollmentSheet,
		attendanceSheet: cfg.AttendanceSheet,
		loc:             loc,
		now:             time.Now,
	}, nil
}

// SetClock replaces the time source used to stamp rows.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) stamp() (string, string) {
	return database.Stamp(s.now().In(s.loc))
}

func (s *Store) append(ctx context.Context, rng string, row []any) error {
	body := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, rng, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to %s: %w", rng, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, rng string) ([][]any, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rng, err)
	}
	return resp.Values, nil
}

// AddEnrollment appends [name, date, time] to the enrollment sheet.
func (s *Store) AddEnrollment(ctx context.Context, name string) error {
	date, clock := s.stamp()
	return s.append(ctx, s.enrollmentSheet+"!A:C", []any{name, date, clock})
}

// AddAttendance appends [name, date, time, status] to the attendance sheet.
func (s *Store) AddAttendance(ctx context.Context, name, status string) error {
	if status == "" {
		status = constants.StatusPresent
	}
	date, clock := s.stamp()
	return s.append(ctx, s.attendanceSheet+"!A:D", []any{name, date, clock, status})
}

// GetAllEnrollments returns the names in column A below the header, de-duplicated.
func (s *Store) GetAllEnrollments(ctx context.Context) ([]string, error) {
	rows, err := s.read(ctx, s.enrollmentSheet+"!A:A")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, row := range skipHeader(rows) {
		if len(row) == 0 {
			continue
		}
		names = append(names, cell(row[0]))
	}
	return database.UniqueNames(names), nil
}

// GetAttendanceRecords returns attendance rows below the header; rows with fewer than four cells are skipped.
func (s *Store) GetAttendanceRecords(ctx context.Context) ([]database.AttendanceRecord, error) {
	rows, err := s.read(ctx, s.attendanceSheet+"!A:D")
	if err != nil {
		return nil, err
	}
	records := make([]database.AttendanceRecord, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if len(row) < 4 {
			continue
		}
		records = append(records, database.AttendanceRecord{
			Name:   cell(row[0]),
			Date:   cell(row[1]),
			Time:   cell(row[2]),
			Status: cell(row[3]),
		})
	}
	return records, nil
}

func skipHeader(rows [][]any) [][]any {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

// cell renders a cell value as a string; the API returns formatted strings for RAW rows.
func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

var _ database.Store = (*Store)(nil)
