package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed detector.yaml
var detectorYAML []byte

// Store backends selectable with STORE_BACKEND.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

type Config struct {
	Sheets     SheetsConfig
	Face       FaceConfig
	Detector   DetectorConfig
	Attendance AttendanceConfig
	Database   DatabaseConfig
	Web        WebConfig
	Log        LogConfig
	Backend    string // sheets (default) or postgres
}

type SheetsConfig struct {
	CredentialsPath string // service account JSON
	SpreadsheetID   string
	EnrollmentSheet string // defaults to Enrollments
	AttendanceSheet string // defaults to Attendance
}

type FaceConfig struct {
	ModelPath           string  // persisted LBPH model (OpenCV YAML)
	LabelsPath          string  // persisted label registry (JSON)
	CascadePath         string  // Haar cascade XML
	UploadDir           string  // archived face samples, one directory per label
	ConfidenceThreshold float64 // LBPH distance below which a prediction is accepted
}

// DetectorConfig holds the Haar cascade tuning. Defaults come from the embedded detector.yaml.
type DetectorConfig struct {
	ScaleFactor  float64 `yaml:"scale_factor"`
	MinNeighbors int     `yaml:"min_neighbors"`
	MinFaceSize  int     `yaml:"min_face_size"`
	FaceSize     int     `yaml:"face_size"`
	MaxImageSize int     `yaml:"max_image_size"`
}

type AttendanceConfig struct {
	Location *time.Location // zone used for row dates and times
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	AllowLocalhost bool // admit any http(s)://localhost origin, for the dev client
}

type LogConfig struct {
	Level  string
	Format string // text or json
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads a positive float from the environment, falling back to defaultVal.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envBool reads a boolean from the environment, falling back to defaultVal.
func envBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadLocation resolves ATTENDANCE_TIMEZONE, falling back to the local zone.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultDetector returns the detector tuning embedded in the binary.
func DefaultDetector() DetectorConfig {
	var d DetectorConfig
	if err := yaml.Unmarshal(detectorYAML, &d); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded detector.yaml: " + err.Error())
	}
	return d
}

func Load() *Config {
	detector := DefaultDetector()
	detector.FaceSize = envInt("FACE_SIZE", detector.FaceSize)
	detector.MinFaceSize = envInt("FACE_MIN_SIZE", detector.MinFaceSize)
	detector.MaxImageSize = envInt("FACE_MAX_IMAGE_SIZE", detector.MaxImageSize)

	return &Config{
		Sheets: SheetsConfig{
			CredentialsPath: envString("GOOGLE_SHEETS_CREDENTIALS_PATH", "credentials/google_sheets_creds.json"),
			SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
			EnrollmentSheet: envString("ENROLLMENT_SHEET_NAME", "Enrollments"),
			AttendanceSheet: envString("ATTENDANCE_SHEET_NAME", "Attendance"),
		},
		Face: FaceConfig{
			ModelPath:           envString("FACE_MODEL_PATH", "data/face_model.yml"),
			LabelsPath:          envString("LABELS_PATH", "data/labels.json"),
			CascadePath:         envString("HAAR_CASCADE_PATH", "data/haarcascade_frontalface_default.xml"),
			UploadDir:           envString("UPLOAD_DIR", "data/uploads"),
			ConfidenceThreshold: envFloat("CONFIDENCE_THRESHOLD", 70),
		},
		Detector: detector,
		Attendance: AttendanceConfig{
			Location: loadLocation(os.Getenv("ATTENDANCE_TIMEZONE")),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8000),
			AllowedOrigins: splitList(envString("ALLOWED_ORIGINS", "http://localhost:3000")),
			AllowLocalhost: envBool("CORS_ALLOW_LOCALHOST", false),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "text"),
		},
		Backend: strings.ToLower(envString("STORE_BACKEND", BackendSheets)),
	}
}

// Validate checks that the selected store backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("SPREADSHEET_ID environment variable is required")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL environment variable is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.Backend, BackendSheets, BackendPostgres)
	}
	if c.Face.ConfidenceThreshold <= 0 {
		return errors.New("CONFIDENCE_THRESHOLD must be positive")
	}
	return nil
}

// EnsureDirs creates the upload directory and the parent directories of the model and labels files.
func (c *Config) EnsureDirs() error {
	dirs := []string{
		c.Face.UploadDir,
		filepath.Dir(c.Face.ModelPath),
		filepath.Dir(c.Face.LabelsPath),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
