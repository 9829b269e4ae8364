package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/utils"
)

// ExportService renders finished batch runs as downloadable reports.
type ExportService struct {
	logger utils.Logger
}

func NewExportService(logger utils.Logger) *ExportService {
	return &ExportService{logger: logger}
}

// ExportBatchReport renders the results in the requested format and returns
// the file bytes plus the content type to serve them with. An empty format
// defaults to xlsx.
func (e *ExportService) ExportBatchReport(req *models.BatchReportRequest) ([]byte, string, error) {
	if req == nil || len(req.Results) == 0 {
		return nil, "", fmt.Errorf("%w: report request has no results", ErrBadRequest)
	}

	title := req.Title
	if title == "" {
		title = "Batch Submission Report"
	}
	summary := models.Summarize(title, req.Results)

	switch req.Format {
	case models.ExportFormatCSV:
		data, err := e.exportCSV(summary, req.Results)
		return data, "text/csv", err
	case models.ExportFormatJSON:
		data, err := e.exportJSON(summary, req.Results)
		return data, "application/json", err
	case models.ExportFormatXLSX, "":
		data, err := e.exportExcel(summary, req.Results)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", ErrBadRequest, req.Format)
	}
}

var reportHeaders = []string{"Task ID", "Status", "Message"}

func resultRow(r models.ProcessResult) []string {
	status := "failed"
	if r.Success {
		status = "submitted"
	}
	return []string{r.TaskID.String(), status, r.Message}
}

func (e *ExportService) exportExcel(summary models.BatchReportSummary, results []models.ProcessResult) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Submissions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// Summary block above the result table.
	f.SetCellValue(sheetName, "A1", summary.Title)
	f.SetCellValue(sheetName, "A2", "Generated")
	f.SetCellValue(sheetName, "B2", summary.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	f.SetCellValue(sheetName, "A3", "Total")
	f.SetCellValue(sheetName, "B3", summary.TotalTasks)
	f.SetCellValue(sheetName, "A4", "Submitted")
	f.SetCellValue(sheetName, "B4", summary.SuccessCount)
	f.SetCellValue(sheetName, "A5", "Failed")
	f.SetCellValue(sheetName, "B5", summary.FailureCount)

	headerRow := 7
	for i, header := range reportHeaders {
		cell := fmt.Sprintf("%c%d", 'A'+i, headerRow)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, result := range results {
		for colIndex, value := range resultRow(result) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, headerRow+1+rowIndex)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *ExportService) exportCSV(summary models.BatchReportSummary, results []models.ProcessResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write([]string{"# " + summary.Title})
	_ = writer.Write([]string{"# total", strconv.Itoa(summary.TotalTasks),
		"submitted", strconv.Itoa(summary.SuccessCount),
		"failed", strconv.Itoa(summary.FailureCount)})
	_ = writer.Write(reportHeaders)

	for _, result := range results {
		if err := writer.Write(resultRow(result)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *ExportService) exportJSON(summary models.BatchReportSummary, results []models.ProcessResult) ([]byte, error) {
	report := struct {
		Summary models.BatchReportSummary `json:"summary"`
		Results []models.ProcessResult    `json:"results"`
	}{Summary: summary, Results: results}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return data, nil
}
