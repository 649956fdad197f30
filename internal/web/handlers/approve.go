package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
	"github.com/SitanshuA091/FACE-Approval-App/internal/logging"
)

// ApproveHandler handles entry approval
type ApproveHandler struct {
	faces     FaceService
	dashboard cacheInvalidator
}

// NewApproveHandler creates a new approval handler
func NewApproveHandler(faces FaceService, dashboard cacheInvalidator) *ApproveHandler {
	return &ApproveHandler{
		faces:     faces,
		dashboard: dashboard,
	}
}

// ApproveRequest represents an entry approval request
type ApproveRequest struct {
	Image string `json:"image"`
}

// ApproveResponse represents the approval outcome.
// Confidence is the classifier distance; lower is a closer match.
type ApproveResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Approve recognizes the face in a webcam frame and records attendance on a match.
func (h *ApproveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	data, err := face.DecodeBase64Image(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, invalidImageFormat(err))
		return
	}

	match, err := h.faces.Recognize(data)
	if errors.Is(err, face.ErrInvalidImage) {
		respondError(w, http.StatusBadRequest, invalidImageFormat(err))
		return
	}
	if err != nil {
		logging.LogError("Recognition failed", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !match.Recognized {
		respondJSON(w, http.StatusOK, ApproveResponse{
			Success:    false,
			Message:    "Face not recognized. Please enroll first.",
			Confidence: match.Distance,
		})
		return
	}

	ctx := r.Context()
	if writer, err := database.GetAttendanceWriter(ctx); err != nil {
		logging.LogWarn("No store for attendance row", err)
	} else if err := writer.AddAttendance(ctx, match.Name, constants.StatusPresent); err != nil {
		logrus.WithError(err).WithField("name", logging.SanitizeForLog(match.Name)).Error("Failed to record attendance")
	}
	if h.dashboard != nil {
		h.dashboard.InvalidateCache()
	}

	logrus.WithFields(logrus.Fields{
		"name":     logging.SanitizeForLog(match.Name),
		"distance": match.Distance,
	}).Info("Entry approved")
	respondJSON(w, http.StatusOK, ApproveResponse{
		Success:    true,
		Message:    fmt.Sprintf("Entry approved. Welcome, %s!", match.Name),
		Name:       match.Name,
		Confidence: match.Distance,
	})
}
