package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database/mock"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
)

// testNow is the fixed clock used by handler tests
var testNow = time.Date(2026, 10, 19, 8, 45, 0, 0, time.UTC)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Face:       config.FaceConfig{ConfidenceThreshold: 70},
		Attendance: config.AttendanceConfig{Location: time.UTC},
	}
}

// setupMockStore registers an in-memory store as the active backend for the test
func setupMockStore(t *testing.T) *mock.MockStore {
	t.Helper()
	store := mock.NewMockStore()
	store.Now = func() time.Time { return testNow }
	database.RegisterBackend("mock", func() database.Store { return store })
	t.Cleanup(database.ResetBackend)
	return store
}

// fakeFaceService is a scriptable FaceService
type fakeFaceService struct {
	mu sync.Mutex

	names []string

	noFace       bool
	enrollErr    error
	match        face.Match
	recognizeErr error

	enrollCalls    int
	recognizeCalls int
	lastImage      []byte
	lastName       string
}

func newFakeFaceService(names ...string) *fakeFaceService {
	return &fakeFaceService{names: names}
}

func (f *fakeFaceService) Enroll(data []byte, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollCalls++
	f.lastImage = data
	f.lastName = name
	if f.enrollErr != nil {
		return false, f.enrollErr
	}
	if f.noFace {
		return false, nil
	}
	f.names = append(f.names, name)
	return true, nil
}

func (f *fakeFaceService) Recognize(data []byte) (face.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recognizeCalls++
	f.lastImage = data
	return f.match, f.recognizeErr
}

func (f *fakeFaceService) EnrolledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.names)
}

func (f *fakeFaceService) EnrolledNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

// countingInvalidator records InvalidateCache calls
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache() {
	c.calls++
}

// jsonRequest creates a request with a JSON body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// dataURL encodes data the way a browser canvas does
func dataURL(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

// multipartRequest creates a multipart form request with an optional file part
func multipartRequest(t *testing.T, path string, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(file)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected detail
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["detail"] != expectedMessage {
		t.Errorf("expected detail '%s', got '%s'", expectedMessage, result["detail"])
	}
}
