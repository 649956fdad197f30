// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Attendance constants
const (
	// StatusPresent is the status written for an approved entry
	StatusPresent = "Present"

	// DateLayout is the format of the date column in enrollment and attendance rows
	DateLayout = "2006-01-02"

	// TimeLayout is the format of the time column in enrollment and attendance rows
	TimeLayout = "15:04:05"
)

// Face processing constants
const (
	// SampleJPEGQuality is the JPEG quality used when normalizing uploads for the detector
	SampleJPEGQuality = 95

	// SampleExtension is the file extension of archived face samples
	SampleExtension = ".png"
)

// Web constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (20MB)
	MaxUploadSize = 20 << 20

	// MaxMultipartOverhead is the allowance for form fields and part headers on top of MaxUploadSize
	MaxMultipartOverhead = 1 << 20

	// MaxJSONBodySize bounds JSON request bodies carrying base64 webcam frames (30MB)
	MaxJSONBodySize = 30 << 20

	// DefaultStatsCacheSeconds is how long dashboard stats are served from cache
	DefaultStatsCacheSeconds = 30
)
