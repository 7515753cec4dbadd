package handlers

import (
	"errors"
	"net/http"

	"github.com/apptrack/apptrack/internal/dtos"
	"github.com/apptrack/apptrack/internal/models"
	"github.com/apptrack/apptrack/internal/services"
	"github.com/apptrack/apptrack/internal/sheet"
	"github.com/gin-gonic/gin"
)

// TrackerHandler exposes the update pipeline and the dashboard.
type TrackerHandler struct {
	Tracker *services.TrackerService
	Cache   *sheet.Cache
	Mirror  *services.MirrorService
}

// NewTrackerHandler creates the handler with dependencies.
func NewTrackerHandler(tracker *services.TrackerService, cache *sheet.Cache, mirror *services.MirrorService) *TrackerHandler {
	return &TrackerHandler{
		Tracker: tracker,
		Cache:   cache,
		Mirror:  mirror,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SubmitUpdate is the POST /updates endpoint: free text in, row write out.
func (h *TrackerHandler) SubmitUpdate(c *gin.Context) {
	var req dtos.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	result, err := h.Tracker.ProcessUpdate(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoCompany), errors.Is(err, services.ErrUndecidable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoHeaderRow), errors.Is(err, services.ErrNoCompanyColumn):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Update failed: " + err.Error()})
		}
		return
	}

	status := http.StatusOK
	if result.Outcome == dtos.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// Dashboard is the GET /applications endpoint. The sheet snapshot is
// preferred; the mirror serves when the sheet is unreachable.
func (h *TrackerHandler) Dashboard(c *gin.Context) {
	headers, rows, err := h.Cache.Snapshot(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"source":  "sheet",
			"headers": headers,
			"rows":    rows,
		})
		return
	}

	apps, mErr := h.Mirror.Applications()
	if mErr == nil && apps != nil {
		c.JSON(http.StatusOK, gin.H{
			"source":       "mirror",
			"applications": apps,
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch data from the sheet: " + err.Error()})
}

// Events is the GET /events endpoint, served from the mirror store.
func (h *TrackerHandler) Events(c *gin.Context) {
	events, err := h.Mirror.RecentEvents(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events: " + err.Error()})
		return
	}
	if events == nil {
		// Mirror disabled or empty; still respond with a list.
		events = []models.ApplicationEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
