package database

import (
	"context"
	"fmt"
)

// UniqueNames drops blank and repeated names, keeping first occurrences in order
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FilterByDate returns records whose date column equals date
func FilterByDate(records []AttendanceRecord, date string) []AttendanceRecord {
	out := make([]AttendanceRecord, 0, len(records))
	for _, r := range records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// PresentOn returns the distinct names with an attendance row on date
func PresentOn(records []AttendanceRecord, date string) []string {
	var names []string
	for _, r := range FilterByDate(records, date) {
		names = append(names, r.Name)
	}
	return UniqueNames(names)
}

// AbsentUsers returns enrolled names missing from present, in enrollment order
func AbsentUsers(enrolled, present []string) []string {
	here := make(map[string]struct{}, len(present))
	for _, name := range present {
		here[name] = struct{}{}
	}
	absent := make([]string, 0, len(enrolled))
	for _, name := range enrolled {
		if _, ok := here[name]; !ok {
			absent = append(absent, name)
		}
	}
	return absent
}

// TodayAttendance returns the distinct names marked present on today
func TodayAttendance(ctx context.Context, reader AttendanceReader, today string) ([]string, error) {
	records, err := reader.GetAttendanceRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading attendance: %w", err)
	}
	return PresentOn(records, today), nil
}

// Summarize builds the dashboard summary for today from the store
func Summarize(ctx context.Context, enrollments EnrollmentReader, attendance AttendanceReader, today string) (*Summary, error) {
	enrolled, err := enrollments.GetAllEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading enrollments: %w", err)
	}
	present, err := TodayAttendance(ctx, attendance, today)
	if err != nil {
		return nil, err
	}
	absent := AbsentUsers(enrolled, present)
	return &Summary{
		TotalEnrolled: len(enrolled),
		TodayPresent:  len(present),
		TodayAbsent:   len(absent),
		AbsentUsers:   absent,
	}, nil
}
