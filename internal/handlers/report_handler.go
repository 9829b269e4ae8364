package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/services"
	"github.com/edusync/task-automation-service/internal/utils"
	"github.com/edusync/task-automation-service/internal/validator"
)

type ReportHandler struct {
	BaseHandler
	exportService *services.ExportService
	validator     *validator.Validator
}

func NewReportHandler(exportService *services.ExportService, v *validator.Validator, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
		validator:     v,
	}
}

// ExportBatchReport renders a finished batch run as a downloadable file.
// @Summary Export batch report
// @Description Exports batch submission results as xlsx, csv, or json
// @Tags reports
// @Accept json
// @Produce application/octet-stream
// @Param request body models.BatchReportRequest true "Report request"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /reports/batch [post]
func (h *ReportHandler) ExportBatchReport(c *gin.Context) {
	var req models.BatchReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Exporting batch report", "results", len(req.Results), "format", req.Format)

	data, contentType, err := h.exportService.ExportBatchReport(&req)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Report export failed", err)
		return
	}

	format := req.Format
	if format == "" {
		format = models.ExportFormatXLSX
	}
	filename := fmt.Sprintf("batch-report-%s.%s", time.Now().UTC().Format("20060102-150405"), format)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
