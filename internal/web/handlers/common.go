package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "Invalid request body"

// FaceService is the part of face.Service the handlers use.
type FaceService interface {
	Enroll(data []byte, name string) (bool, error)
	Recognize(data []byte) (face.Match, error)
	EnrolledCount() int
	EnrolledNames() []string
}

// cacheInvalidator is implemented by handlers that cache data derived from the store.
type cacheInvalidator interface {
	InvalidateCache()
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response. The web client reads the message from "detail".
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}

// decodeJSON decodes a size-limited JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxJSONBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// Root handles the API banner endpoint.
func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "FaceApproval API is running",
	})
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	EnrolledUsers int    `json:"enrolled_users"`
}

// HealthHandler reports liveness and the number of enrolled users
type HealthHandler struct {
	faces FaceService
	now   func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(faces FaceService) *HealthHandler {
	return &HealthHandler{faces: faces, now: time.Now}
}

// Get handles the health check endpoint.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Timestamp:     h.now().Format(time.RFC3339),
		EnrolledUsers: h.faces.EnrolledCount(),
	})
}
