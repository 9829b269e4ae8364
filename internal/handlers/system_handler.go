package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusync/task-automation-service/internal/services"
	"github.com/edusync/task-automation-service/internal/utils"
)

type SystemHandler struct {
	BaseHandler
	metrics *services.MetricsCollector
}

func NewSystemHandler(metrics *services.MetricsCollector, logger utils.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		metrics:     metrics,
	}
}

// Health reports liveness plus the headline counters.
func (h *SystemHandler) Health(c *gin.Context) {
	snapshot := h.metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"service":           "task-automation-service",
		"uptime_seconds":    snapshot.UptimeSeconds,
		"total_submissions": snapshot.TotalSubmissions,
		"total_errors":      snapshot.TotalErrors,
	})
}

// Metrics returns the full counter snapshot plus the recent result history.
func (h *SystemHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics": h.metrics.Snapshot(),
		"history": h.metrics.History(),
	})
}
