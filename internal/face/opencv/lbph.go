package opencv

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// LBPHClassifier wraps OpenCV's Local Binary Patterns Histograms face recognizer.
// Callers must serialize access; face.Service does.
type LBPHClassifier struct {
	recognizer *contrib.LBPHFaceRecognizer
}

// NewLBPHClassifier returns an untrained classifier.
func NewLBPHClassifier() *LBPHClassifier {
	return &LBPHClassifier{recognizer: contrib.NewLBPHFaceRecognizer()}
}

// toMats converts grayscale crops to single-channel Mats. The caller closes them.
func toMats(faces []*image.Gray) ([]gocv.Mat, error) {
	mats := make([]gocv.Mat, 0, len(faces))
	for _, f := range faces {
		m, err := gocv.ImageGrayToMatGray(f)
		if err != nil {
			closeMats(mats)
			return nil, fmt.Errorf("converting face to Mat: %w", err)
		}
		mats = append(mats, m)
	}
	return mats, nil
}

func closeMats(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}

func checkBatch(faces []*image.Gray, labels []int) error {
	if len(faces) == 0 {
		return errors.New("no faces to train on")
	}
	if len(faces) != len(labels) {
		return fmt.Errorf("got %d faces but %d labels", len(faces), len(labels))
	}
	return nil
}

// Train replaces the model with one trained on faces.
func (c *LBPHClassifier) Train(faces []*image.Gray, labels []int) error {
	if err := checkBatch(faces, labels); err != nil {
		return err
	}
	mats, err := toMats(faces)
	if err != nil {
		return err
	}
	defer closeMats(mats)
	c.recognizer.Train(mats, labels)
	return nil
}

// Update adds faces to the model. On an untrained model it behaves like Train.
func (c *LBPHClassifier) Update(faces []*image.Gray, labels []int) error {
	if err := checkBatch(faces, labels); err != nil {
		return err
	}
	mats, err := toMats(faces)
	if err != nil {
		return err
	}
	defer closeMats(mats)
	c.recognizer.Update(mats, labels)
	return nil
}

// Predict returns the nearest label and its LBPH histogram distance.
func (c *LBPHClassifier) Predict(f *image.Gray) (int, float64, error) {
	m, err := gocv.ImageGrayToMatGray(f)
	if err != nil {
		return 0, 0, fmt.Errorf("converting face to Mat: %w", err)
	}
	defer m.Close()
	resp := c.recognizer.PredictExtendedResponse(m)
	return int(resp.Label), float64(resp.Confidence), nil
}

// Save writes the model in OpenCV's YAML format.
// OpenCV reports nothing on failure, so the written file is checked afterwards.
func (c *LBPHClassifier) Save(path string) error {
	c.recognizer.SaveFile(path)
	if err := checkModelFile(path); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	return nil
}

// Load reads a model written by Save.
func (c *LBPHClassifier) Load(path string) error {
	if err := checkModelFile(path); err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	c.recognizer.LoadFile(path)
	return nil
}

// checkModelFile fails unless path is a readable, non-empty regular file.
func checkModelFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s is empty", path)
	}
	return nil
}
