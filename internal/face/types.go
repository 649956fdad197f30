// Package face enrolls and recognizes faces. Detection and classification are
// delegated to a Detector and a Classifier; the opencv subpackage provides the
// Haar cascade and LBPH implementations.
package face

import (
	"errors"
	"image"
)

var (
	// ErrNoFace is returned by a Detector when the image contains no face.
	ErrNoFace = errors.New("no face detected")
	// ErrInvalidImage marks input that cannot be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrEmptyName is returned when enrolling without a name.
	ErrEmptyName = errors.New("name is required")
)

// Detector finds the dominant face in an encoded image.
type Detector interface {
	// DetectFace returns the largest face as a square grayscale crop, or ErrNoFace.
	DetectFace(data []byte) (*image.Gray, error)
}

// Classifier is a face classifier over grayscale crops keyed by integer labels.
type Classifier interface {
	// Train replaces the model with one trained on faces.
	Train(faces []*image.Gray, labels []int) error
	// Update adds faces to the model, keeping what it already learned.
	Update(faces []*image.Gray, labels []int) error
	// Predict returns the closest label and its distance (lower is closer).
	Predict(face *image.Gray) (label int, distance float64, err error)
	Save(path string) error
	Load(path string) error
}

// Match is the outcome of a recognition attempt.
type Match struct {
	Name       string
	Distance   float64
	Recognized bool
}
