package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database/postgres"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database/sheets"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face/opencv"
)

// loadConfig loads and validates the configuration and creates the data directories.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initStore connects the configured store backend and registers it.
// The returned func releases its resources.
func initStore(ctx context.Context, cfg *config.Config) (func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		logrus.Info("Connecting to PostgreSQL database...")
		pool, err := postgres.Open(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewAttendanceRepository(pool, cfg.Attendance.Location)
		database.RegisterBackend(config.BackendPostgres, func() database.Store { return repo })
		logrus.Info("Using PostgreSQL backend")
		return func() { pool.Close() }, nil
	default:
		store, err := sheets.New(ctx, &cfg.Sheets, cfg.Attendance.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets: %w", err)
		}
		database.RegisterBackend(config.BackendSheets, func() database.Store { return store })
		logrus.WithField("spreadsheet", cfg.Sheets.SpreadsheetID).Info("Using Google Sheets backend")
		return func() {}, nil
	}
}

// initFaceService loads the Haar cascade, the LBPH model and the label registry.
func initFaceService(cfg *config.Config) (*face.Service, func(), error) {
	detector, err := opencv.NewHaarDetector(cfg.Face.CascadePath, cfg.Detector)
	if err != nil {
		return nil, nil, err
	}
	classifier := opencv.NewLBPHClassifier()

	svc, err := face.NewService(cfg, detector, classifier)
	if err != nil {
		detector.Close()
		return nil, nil, err
	}
	return svc, func() { detector.Close() }, nil
}
