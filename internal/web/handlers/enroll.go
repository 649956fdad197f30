package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
	"github.com/SitanshuA091/FACE-Approval-App/internal/logging"
)

const (
	msgNameRequired     = "Name is required"
	msgInvalidImageFile = "Invalid image file"
	msgNoFaceDetected   = "No face detected in image. Please try again."
	msgFileTooLarge     = "File too large (max 20MB)"
)

// EnrollHandler handles enrollment endpoints
type EnrollHandler struct {
	faces     FaceService
	dashboard cacheInvalidator
}

// NewEnrollHandler creates a new enrollment handler
func NewEnrollHandler(faces FaceService, dashboard cacheInvalidator) *EnrollHandler {
	return &EnrollHandler{
		faces:     faces,
		dashboard: dashboard,
	}
}

// EnrollWebcamRequest represents a webcam enrollment request
type EnrollWebcamRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"` // base64, optionally a data URL
}

// EnrollResponse represents the enrollment outcome
type EnrollResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Webcam enrolls a face from a base64 webcam frame.
func (h *EnrollHandler) Webcam(w http.ResponseWriter, r *http.Request) {
	var req EnrollWebcamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	name := face.NormalizeName(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	data, err := face.DecodeBase64Image(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, invalidImageFormat(err))
		return
	}

	h.enroll(w, r, data, name, invalidImageFormat)
}

// File enrolls a face from an uploaded image file.
func (h *EnrollHandler) File(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize+constants.MaxMultipartOverhead)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	name := face.NormalizeName(r.FormValue("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()
	if header.Size > constants.MaxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadSize))
	if err != nil || len(data) == 0 {
		respondError(w, http.StatusBadRequest, msgInvalidImageFile)
		return
	}

	h.enroll(w, r, data, name, func(error) string { return msgInvalidImageFile })
}

// enroll runs face enrollment and records the enrollment row.
// invalidImage renders the 400 message for undecodable images.
func (h *EnrollHandler) enroll(w http.ResponseWriter, r *http.Request, data []byte, name string, invalidImage func(error) string) {
	ok, err := h.faces.Enroll(data, name)
	switch {
	case errors.Is(err, face.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, invalidImage(err))
		return
	case errors.Is(err, face.ErrEmptyName):
		respondError(w, http.StatusBadRequest, msgNameRequired)
		return
	case err != nil:
		logging.LogError("Enrollment failed", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !ok {
		respondJSON(w, http.StatusOK, EnrollResponse{
			Success: false,
			Message: msgNoFaceDetected,
			Name:    name,
		})
		return
	}

	// The face is already in the model; a lost row is logged, not surfaced.
	ctx := r.Context()
	if writer, err := database.GetEnrollmentWriter(ctx); err != nil {
		logging.LogWarn("No store for enrollment row", err)
	} else if err := writer.AddEnrollment(ctx, name); err != nil {
		logrus.WithError(err).WithField("name", logging.SanitizeForLog(name)).Error("Failed to record enrollment")
	}
	if h.dashboard != nil {
		h.dashboard.InvalidateCache()
	}

	logrus.WithField("name", logging.SanitizeForLog(name)).Info("Enrolled user")
	respondJSON(w, http.StatusOK, EnrollResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully enrolled %s", name),
		Name:    name,
	})
}

func invalidImageFormat(err error) string {
	return fmt.Sprintf("Invalid image format: %v", err)
}
