package face

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
)

// fakeDetector returns a fixed crop, or err when set.
type fakeDetector struct {
	err   error
	calls int
}

func (d *fakeDetector) DetectFace(data []byte) (*image.Gray, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return image.NewGray(image.Rect(0, 0, 8, 8)), nil
}

// fakeClassifier records training calls and answers predictions from fields.
type fakeClassifier struct {
	mu            sync.Mutex
	updatedLabels []int
	trainedLabels []int
	predictLabel  int
	predictDist   float64
	updateErr     error
	saved         []string
	loaded        []string
}

func (c *fakeClassifier) Train(faces []*image.Gray, labels []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trainedLabels = append([]int(nil), labels...)
	return nil
}

func (c *fakeClassifier) Update(faces []*image.Gray, labels []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.updateErr != nil {
		return c.updateErr
	}
	c.updatedLabels = append(c.updatedLabels, labels...)
	return nil
}

func (c *fakeClassifier) Predict(face *image.Gray) (int, float64, error) {
	return c.predictLabel, c.predictDist, nil
}

func (c *fakeClassifier) Save(path string) error {
	c.saved = append(c.saved, path)
	return os.WriteFile(path, []byte("model"), 0o644)
}

func (c *fakeClassifier) Load(path string) error {
	c.loaded = append(c.loaded, path)
	return nil
}

func testServiceConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Face: config.FaceConfig{
			ModelPath:           filepath.Join(dir, "face_model.yml"),
			LabelsPath:          filepath.Join(dir, "labels.json"),
			UploadDir:           filepath.Join(dir, "uploads"),
			ConfidenceThreshold: 70,
		},
		Detector: config.DefaultDetector(),
	}
}

func newTestService(t *testing.T, cfg *config.Config, det *fakeDetector, cls *fakeClassifier) *Service {
	t.Helper()
	svc, err := NewService(cfg, det, cls)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestService_Enroll(t *testing.T) {
	cfg := testServiceConfig(t)
	cls := &fakeClassifier{}
	svc := newTestService(t, cfg, &fakeDetector{}, cls)

	ok, err := svc.Enroll(testPNG(t, 32, 32), "  Alice ")
	if err != nil || !ok {
		t.Fatalf("Enroll() = %v, %v; want true, nil", ok, err)
	}
	ok, err = svc.Enroll(testPNG(t, 32, 32), "Bob")
	if err != nil || !ok {
		t.Fatalf("Enroll() = %v, %v; want true, nil", ok, err)
	}
	ok, err = svc.Enroll(testPNG(t, 32, 32), "Alice")
	if err != nil || !ok {
		t.Fatalf("Enroll() = %v, %v; want true, nil", ok, err)
	}

	if want := []int{0, 1, 0}; !reflect.DeepEqual(cls.updatedLabels, want) {
		t.Errorf("updated labels = %v, want %v", cls.updatedLabels, want)
	}
	if got := svc.EnrolledNames(); !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Errorf("EnrolledNames() = %v", got)
	}
	if svc.EnrolledCount() != 2 {
		t.Errorf("EnrolledCount() = %d, want 2", svc.EnrolledCount())
	}

	// Registry and model are persisted after each enrollment.
	if _, err := os.Stat(cfg.Face.LabelsPath); err != nil {
		t.Errorf("labels not saved: %v", err)
	}
	if _, err := os.Stat(cfg.Face.ModelPath); err != nil {
		t.Errorf("model not saved: %v", err)
	}

	// Samples are archived per label.
	entries, err := os.ReadDir(filepath.Join(cfg.Face.UploadDir, "0"))
	if err != nil {
		t.Fatalf("reading sample dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 samples for Alice, got %d", len(entries))
	}
}

func TestService_Enroll_NoFace(t *testing.T) {
	cfg := testServiceConfig(t)
	cls := &fakeClassifier{}
	svc := newTestService(t, cfg, &fakeDetector{err: ErrNoFace}, cls)

	ok, err := svc.Enroll(testPNG(t, 32, 32), "Alice")
	if err != nil || ok {
		t.Fatalf("Enroll() = %v, %v; want false, nil", ok, err)
	}
	if svc.EnrolledCount() != 0 {
		t.Errorf("EnrolledCount() = %d, want 0", svc.EnrolledCount())
	}
	if len(cls.updatedLabels) != 0 {
		t.Error("classifier should not be updated")
	}
}

func TestService_Enroll_EmptyName(t *testing.T) {
	svc := newTestService(t, testServiceConfig(t), &fakeDetector{}, &fakeClassifier{})

	_, err := svc.Enroll(testPNG(t, 32, 32), "   ")
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("Enroll() error = %v, want ErrEmptyName", err)
	}
}

func TestService_Enroll_InvalidImage(t *testing.T) {
	det := &fakeDetector{}
	svc := newTestService(t, testServiceConfig(t), det, &fakeClassifier{})

	_, err := svc.Enroll([]byte("garbage"), "Alice")
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Enroll() error = %v, want ErrInvalidImage", err)
	}
	if det.calls != 0 {
		t.Error("detector should not run on undecodable input")
	}
}

func TestService_Enroll_UpdateFailureRollsBackNewName(t *testing.T) {
	cls := &fakeClassifier{updateErr: errors.New("opencv exploded")}
	svc := newTestService(t, testServiceConfig(t), &fakeDetector{}, cls)

	if _, err := svc.Enroll(testPNG(t, 32, 32), "Alice"); err == nil {
		t.Fatal("expected error")
	}
	if svc.EnrolledCount() != 0 {
		t.Errorf("EnrolledCount() = %d, want 0 after rollback", svc.EnrolledCount())
	}
}

func TestService_Recognize(t *testing.T) {
	tests := []struct {
		name           string
		distance       float64
		label          int
		wantRecognized bool
		wantName       string
	}{
		{"close match", 35.2, 0, true, "Alice"},
		{"at threshold", 70, 0, false, ""},
		{"too far", 120, 0, false, ""},
		{"unknown label", 10, 42, false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cls := &fakeClassifier{predictLabel: tc.label, predictDist: tc.distance}
			svc := newTestService(t, testServiceConfig(t), &fakeDetector{}, cls)
			if ok, err := svc.Enroll(testPNG(t, 32, 32), "Alice"); !ok || err != nil {
				t.Fatalf("Enroll() = %v, %v", ok, err)
			}

			match, err := svc.Recognize(testPNG(t, 32, 32))
			if err != nil {
				t.Fatalf("Recognize() error = %v", err)
			}
			if match.Recognized != tc.wantRecognized {
				t.Errorf("Recognized = %v, want %v", match.Recognized, tc.wantRecognized)
			}
			if match.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", match.Name, tc.wantName)
			}
			if match.Distance != tc.distance {
				t.Errorf("Distance = %v, want %v", match.Distance, tc.distance)
			}
		})
	}
}

func TestService_Recognize_NobodyEnrolled(t *testing.T) {
	det := &fakeDetector{}
	svc := newTestService(t, testServiceConfig(t), det, &fakeClassifier{predictDist: 1})

	match, err := svc.Recognize(testPNG(t, 32, 32))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if match.Recognized || match.Distance != 0 {
		t.Errorf("Recognize() = %+v, want zero match", match)
	}
	if det.calls != 0 {
		t.Error("detector should not run with an empty registry")
	}
}

func TestService_Recognize_NoFace(t *testing.T) {
	det := &fakeDetector{}
	svc := newTestService(t, testServiceConfig(t), det, &fakeClassifier{predictDist: 1})
	svc.Enroll(testPNG(t, 32, 32), "Alice")

	det.err = ErrNoFace
	match, err := svc.Recognize(testPNG(t, 32, 32))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if match.Recognized {
		t.Error("expected no match without a face")
	}
}

func TestNewService_LoadsPersistedModel(t *testing.T) {
	cfg := testServiceConfig(t)
	first := newTestService(t, cfg, &fakeDetector{}, &fakeClassifier{})
	first.Enroll(testPNG(t, 32, 32), "Alice")

	cls := &fakeClassifier{predictDist: 5}
	second := newTestService(t, cfg, &fakeDetector{}, cls)

	if len(cls.loaded) != 1 || cls.loaded[0] != cfg.Face.ModelPath {
		t.Errorf("loaded = %v, want [%s]", cls.loaded, cfg.Face.ModelPath)
	}
	match, err := second.Recognize(testPNG(t, 32, 32))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !match.Recognized || match.Name != "Alice" {
		t.Errorf("Recognize() = %+v, want Alice", match)
	}
}

func TestNewService_RegistryWithoutModel(t *testing.T) {
	cfg := testServiceConfig(t)
	r := NewRegistry()
	r.Assign("Alice")
	if err := r.Save(cfg.Face.LabelsPath); err != nil {
		t.Fatal(err)
	}

	cls := &fakeClassifier{predictDist: 1}
	svc := newTestService(t, cfg, &fakeDetector{}, cls)

	if len(cls.loaded) != 0 {
		t.Error("no model file, nothing should be loaded")
	}
	match, _ := svc.Recognize(testPNG(t, 32, 32))
	if match.Recognized {
		t.Error("untrained model must not recognize anyone")
	}
}

func TestService_Retrain(t *testing.T) {
	cfg := testServiceConfig(t)
	cls := &fakeClassifier{}
	svc := newTestService(t, cfg, &fakeDetector{}, cls)
	svc.Enroll(testPNG(t, 32, 32), "Alice")
	svc.Enroll(testPNG(t, 32, 32), "Bob")
	svc.Enroll(testPNG(t, 32, 32), "Alice")

	// Stray files are ignored.
	os.WriteFile(filepath.Join(cfg.Face.UploadDir, "0", "notes.txt"), []byte("x"), 0o644)

	var calls int
	n, err := svc.Retrain(context.Background(), func(done, total int) {
		calls++
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	})
	if err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Retrain() = %d, want 3", n)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	if want := []int{0, 0, 1}; !reflect.DeepEqual(cls.trainedLabels, want) {
		t.Errorf("trained labels = %v, want %v", cls.trainedLabels, want)
	}
}

func TestService_Retrain_NoSamples(t *testing.T) {
	cls := &fakeClassifier{}
	svc := newTestService(t, testServiceConfig(t), &fakeDetector{}, cls)

	n, err := svc.Retrain(context.Background(), nil)
	if err != nil || n != 0 {
		t.Errorf("Retrain() = %d, %v; want 0, nil", n, err)
	}
	if cls.trainedLabels != nil {
		t.Error("classifier should not be trained without samples")
	}
}

func TestService_Retrain_Cancelled(t *testing.T) {
	svc := newTestService(t, testServiceConfig(t), &fakeDetector{}, &fakeClassifier{})
	svc.Enroll(testPNG(t, 32, 32), "Alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Retrain(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Retrain() error = %v, want context.Canceled", err)
	}
}
