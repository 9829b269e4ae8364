package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/utils"
)

func sampleResults() []models.ProcessResult {
	return []models.ProcessResult{
		{Success: true, TaskID: models.NewFlexID("1"), Message: "ok"},
		{Success: false, TaskID: models.NewFlexID("2"), Message: "HTTP error while fetching task detail"},
	}
}

func TestExportBatchReportRejectsEmptyRequest(t *testing.T) {
	e := NewExportService(utils.NewDevelopmentLogger())

	_, _, err := e.ExportBatchReport(nil)
	assert.ErrorIs(t, err, ErrBadRequest)

	_, _, err = e.ExportBatchReport(&models.BatchReportRequest{})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestExportBatchReportRejectsUnknownFormat(t *testing.T) {
	e := NewExportService(utils.NewDevelopmentLogger())

	_, _, err := e.ExportBatchReport(&models.BatchReportRequest{
		Results: sampleResults(),
		Format:  "pdf",
	})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestExportBatchReportJSON(t *testing.T) {
	e := NewExportService(utils.NewDevelopmentLogger())

	data, contentType, err := e.ExportBatchReport(&models.BatchReportRequest{
		Results: sampleResults(),
		Format:  models.ExportFormatJSON,
		Title:   "Run 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var report struct {
		Summary models.BatchReportSummary `json:"summary"`
		Results []models.ProcessResult    `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "Run 1", report.Summary.Title)
	assert.Equal(t, 2, report.Summary.TotalTasks)
	assert.Equal(t, 1, report.Summary.SuccessCount)
	assert.Equal(t, 1, report.Summary.FailureCount)
	assert.Len(t, report.Results, 2)
}

func TestExportBatchReportCSV(t *testing.T) {
	e := NewExportService(utils.NewDevelopmentLogger())

	data, contentType, err := e.ExportBatchReport(&models.BatchReportRequest{
		Results: sampleResults(),
		Format:  models.ExportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// Two comment rows, the header, then one row per result.
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Task ID", "Status", "Message"}, records[2])
	assert.Equal(t, []string{"1", "submitted", "ok"}, records[3])
	assert.Equal(t, "failed", records[4][1])
}

func TestExportBatchReportExcelDefault(t *testing.T) {
	e := NewExportService(utils.NewDevelopmentLogger())

	// An empty format selects the spreadsheet.
	data, contentType, err := e.ExportBatchReport(&models.BatchReportRequest{
		Results: sampleResults(),
		Title:   "Batch",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Submissions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Batch", title)

	firstTask, err := f.GetCellValue("Submissions", "A8")
	require.NoError(t, err)
	assert.Equal(t, "1", firstTask)
}
