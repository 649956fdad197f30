package handlers

import (
	"net/http"
)

// UsersHandler lists enrolled users
type UsersHandler struct {
	faces FaceService
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(faces FaceService) *UsersHandler {
	return &UsersHandler{faces: faces}
}

// UsersResponse represents the enrolled users listing
type UsersResponse struct {
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// List returns the users known to the face model, in enrollment order
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.faces.EnrolledNames()
	if users == nil {
		users = []string{}
	}
	respondJSON(w, http.StatusOK, UsersResponse{Users: users, Count: len(users)})
}
