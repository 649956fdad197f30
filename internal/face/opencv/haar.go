// Package opencv implements face.Detector and face.Classifier on top of OpenCV (gocv).
package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
)

// HaarDetector finds frontal faces with a Haar cascade.
// Callers must serialize access; face.Service does.
type HaarDetector struct {
	cascade gocv.CascadeClassifier
	params  config.DetectorConfig
}

// NewHaarDetector loads the cascade XML at path.
func NewHaarDetector(path string, params config.DetectorConfig) (*HaarDetector, error) {
	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(path) {
		cascade.Close()
		return nil, fmt.Errorf("failed to load Haar cascade from %s", path)
	}
	return &HaarDetector{cascade: cascade, params: params}, nil
}

// DetectFace returns the largest detected face, grayscale and resized to params.FaceSize.
func (d *HaarDetector) DetectFace(data []byte) (*image.Gray, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", face.ErrInvalidImage, err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, face.ErrInvalidImage
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	minSize := image.Pt(d.params.MinFaceSize, d.params.MinFaceSize)
	rects := d.cascade.DetectMultiScaleWithParams(gray, d.params.ScaleFactor, d.params.MinNeighbors, 0, minSize, image.Pt(0, 0))
	if len(rects) == 0 {
		return nil, face.ErrNoFace
	}

	region := gray.Region(largest(rects))
	defer region.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(region, &resized, image.Pt(d.params.FaceSize, d.params.FaceSize), 0, 0, gocv.InterpolationLinear)

	out, err := resized.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting face crop: %w", err)
	}
	crop, ok := out.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("unexpected face crop type %T", out)
	}
	return crop, nil
}

// Close releases the cascade.
func (d *HaarDetector) Close() error {
	return d.cascade.Close()
}

// largest returns the rectangle with the biggest area.
func largest(rects []image.Rectangle) image.Rectangle {
	best := rects[0]
	for _, r := range rects[1:] {
		if r.Dx()*r.Dy() > best.Dx()*best.Dy() {
			best = r
		}
	}
	return best
}
