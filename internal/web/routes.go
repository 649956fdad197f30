package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/SitanshuA091/FACE-Approval-App/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	dashboardHandler := handlers.NewDashboardHandler(s.config)
	enrollHandler := handlers.NewEnrollHandler(s.faces, dashboardHandler)
	approveHandler := handlers.NewApproveHandler(s.faces, dashboardHandler)
	usersHandler := handlers.NewUsersHandler(s.faces)
	healthHandler := handlers.NewHealthHandler(s.faces)

	s.router.Get("/", handlers.Root)
	s.router.Get("/health", healthHandler.Get)

	s.router.Route("/api", func(r chi.Router) {
		// Enrollment
		r.Post("/enroll/webcam", enrollHandler.Webcam)
		r.Post("/enroll/file", enrollHandler.File)

		// Approval
		r.Post("/approve", approveHandler.Approve)

		// Dashboard
		r.Get("/dashboard/stats", dashboardHandler.Stats)
		r.Get("/dashboard/attendance", dashboardHandler.Attendance)

		// Users
		r.Get("/users", usersHandler.List)
	})
}
