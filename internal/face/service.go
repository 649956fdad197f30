package face

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
)

// Service enrolls and recognizes faces and keeps the model and label registry on disk.
// The classifier is not safe for concurrent use, so every operation holds mu.
type Service struct {
	mu           sync.Mutex
	cfg          config.FaceConfig
	maxImageSize int
	detector     Detector
	classifier   Classifier
	registry     *Registry
	trained      bool
}

// NewService loads the label registry and, when users are enrolled, the persisted model.
func NewService(cfg *config.Config, detector Detector, classifier Classifier) (*Service, error) {
	registry, err := LoadRegistry(cfg.Face.LabelsPath)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:          cfg.Face,
		maxImageSize: cfg.Detector.MaxImageSize,
		detector:     detector,
		classifier:   classifier,
		registry:     registry,
	}

	if registry.Len() > 0 {
		if _, err := os.Stat(cfg.Face.ModelPath); err == nil {
			if err := classifier.Load(cfg.Face.ModelPath); err != nil {
				return nil, fmt.Errorf("loading face model: %w", err)
			}
			s.trained = true
			logrus.Infof("Loaded model with %d users", registry.Len())
		} else {
			logrus.Warnf("Label registry lists %d users but no model at %s; run retrain", registry.Len(), cfg.Face.ModelPath)
		}
	}
	return s, nil
}

// Enroll detects the largest face in data and adds it to the model under name.
// It returns false without error when no face is found.
func (s *Service) Enroll(data []byte, name string) (bool, error) {
	name = NormalizeName(name)
	if name == "" {
		return false, ErrEmptyName
	}

	normalized, err := NormalizeImage(data, s.maxImageSize)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	face, err := s.detector.DetectFace(normalized)
	if errors.Is(err, ErrNoFace) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("detecting face: %w", err)
	}

	label, created := s.registry.Assign(name)
	if err := s.classifier.Update([]*image.Gray{face}, []int{label}); err != nil {
		if created {
			s.registry.Remove(name)
		}
		return false, fmt.Errorf("updating classifier: %w", err)
	}
	s.trained = true

	if _, err := s.archiveSample(label, name, face); err != nil {
		logrus.WithError(err).Warn("Failed to archive face sample")
	}
	if err := s.saveLocked(); err != nil {
		logrus.WithError(err).Error("Failed to save face model")
	}
	return true, nil
}

// Recognize detects the largest face in data and predicts who it is.
// A prediction counts only when its distance is below the confidence threshold.
func (s *Service) Recognize(data []byte) (Match, error) {
	normalized, err := NormalizeImage(data, s.maxImageSize)
	if err != nil {
		return Match{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.Len() == 0 || !s.trained {
		return Match{}, nil
	}

	face, err := s.detector.DetectFace(normalized)
	if errors.Is(err, ErrNoFace) {
		return Match{}, nil
	}
	if err != nil {
		return Match{}, fmt.Errorf("detecting face: %w", err)
	}

	label, distance, err := s.classifier.Predict(face)
	if err != nil {
		return Match{}, fmt.Errorf("predicting face: %w", err)
	}

	match := Match{Distance: distance}
	if distance < s.cfg.ConfidenceThreshold {
		if name, ok := s.registry.Name(label); ok {
			match.Name = name
			match.Recognized = true
		}
	}
	return match, nil
}

// EnrolledCount returns the number of enrolled users.
func (s *Service) EnrolledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Len()
}

// EnrolledNames returns enrolled users in enrollment order.
func (s *Service) EnrolledNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Names()
}

// Save persists the registry and the model.
func (s *Service) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Service) saveLocked() error {
	if err := s.registry.Save(s.cfg.LabelsPath); err != nil {
		return err
	}
	if !s.trained {
		return nil
	}
	if err := s.classifier.Save(s.cfg.ModelPath); err != nil {
		return fmt.Errorf("saving face model: %w", err)
	}
	return nil
}

// sampleDir returns the archive directory for label.
func (s *Service) sampleDir(label int) string {
	return filepath.Join(s.cfg.UploadDir, strconv.Itoa(label))
}

func (s *Service) archiveSample(label int, name string, face *image.Gray) (string, error) {
	dir := s.sampleDir(label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating sample directory: %w", err)
	}
	data, err := EncodeSample(face)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SampleFileName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing sample: %w", err)
	}
	return path, nil
}

// sample is an archived face crop on disk.
type sample struct {
	path  string
	label int
}

// listSamples returns archived samples of every registered label.
func (s *Service) listSamples() ([]sample, error) {
	var samples []sample
	for _, label := range s.registry.Labels() {
		entries, err := os.ReadDir(s.sampleDir(label))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples for label %d: %w", label, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), constants.SampleExtension) {
				continue
			}
			samples = append(samples, sample{path: filepath.Join(s.sampleDir(label), e.Name()), label: label})
		}
	}
	return samples, nil
}

// Retrain rebuilds the model from every archived sample and returns how many were used.
// progress, when non-nil, is called after each sample is read.
func (s *Service) Retrain(ctx context.Context, progress func(done, total int)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples, err := s.listSamples()
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nil
	}

	faces := make([]*image.Gray, 0, len(samples))
	labels := make([]int, 0, len(samples))
	for i, smp := range samples {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		data, err := os.ReadFile(smp.path)
		if err != nil {
			return 0, fmt.Errorf("reading sample: %w", err)
		}
		face, err := DecodeSample(data)
		if err != nil {
			logrus.WithError(err).WithField("path", smp.path).Warn("Skipping unreadable sample")
		} else {
			faces = append(faces, face)
			labels = append(labels, smp.label)
		}
		if progress != nil {
			progress(i+1, len(samples))
		}
	}
	if len(faces) == 0 {
		return 0, nil
	}

	if err := s.classifier.Train(faces, labels); err != nil {
		return 0, fmt.Errorf("training classifier: %w", err)
	}
	s.trained = true
	if err := s.saveLocked(); err != nil {
		return len(faces), err
	}
	return len(faces), nil
}
