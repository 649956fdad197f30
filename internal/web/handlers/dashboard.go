package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
	"github.com/SitanshuA091/FACE-Approval-App/internal/logging"
)

const statsCacheTTL = constants.DefaultStatsCacheSeconds * time.Second

// statsCache holds cached stats for one day with expiry.
// generation advances on every invalidate so a summary computed before an
// invalidation is never stored after it.
type statsCache struct {
	mu         sync.RWMutex
	data       *database.Summary
	date       string
	expiresAt  time.Time
	generation uint64
}

func (c *statsCache) get(date string, now time.Time) (*database.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || c.date != date || now.After(c.expiresAt) {
		return nil, false
	}
	return c.data, true
}

// snapshot returns the generation to pass to set once the store has been read.
func (c *statsCache) snapshot() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// set stores data unless the cache was invalidated since generation was taken.
func (c *statsCache) set(data *database.Summary, date string, now time.Time, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.data = data
	c.date = date
	c.expiresAt = now.Add(statsCacheTTL)
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.generation++
}

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	config *config.Config
	cache  statsCache
	now    func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		config: cfg,
		now:    time.Now,
	}
}

// InvalidateCache clears the cached stats so the next request reads the store
func (h *DashboardHandler) InvalidateCache() {
	h.cache.invalidate()
}

func (h *DashboardHandler) today() string {
	return database.Today(h.now(), h.config.Attendance.Location)
}

// Stats returns today's enrollment and attendance summary
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	today := h.today()
	if cached, ok := h.cache.get(today, now); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	generation := h.cache.snapshot()

	ctx := r.Context()
	enrollments, err := database.GetEnrollmentReader(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	attendance, err := database.GetAttendanceReader(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary, err := database.Summarize(ctx, enrollments, attendance, today)
	if err != nil {
		logging.LogError("Failed to build dashboard stats", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cache.set(summary, today, now, generation)
	respondJSON(w, http.StatusOK, summary)
}

// AttendanceResponse represents the attendance listing
type AttendanceResponse struct {
	Records []database.AttendanceRecord `json:"records"`
}

// Attendance returns attendance rows, optionally only those of ?date=YYYY-MM-DD
func (h *DashboardHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(constants.DateLayout, date); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
	}

	ctx := r.Context()
	reader, err := database.GetAttendanceReader(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records, err := reader.GetAttendanceRecords(ctx)
	if err != nil {
		logging.LogError("Failed to read attendance", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if date != "" {
		records = database.FilterByDate(records, date)
	}
	if records == nil {
		records = []database.AttendanceRecord{}
	}

	respondJSON(w, http.StatusOK, AttendanceResponse{Records: records})
}
