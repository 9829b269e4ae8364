package models

import "time"

// ExportFormat values accepted by the batch report exporter.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// BatchReportRequest asks for an export of a finished batch run.
type BatchReportRequest struct {
	Results []ProcessResult `json:"results" validate:"required,min=1"`
	Format  string          `json:"format" validate:"omitempty,export_format"`
	Title   string          `json:"title"`
}

// BatchReportSummary is the header block of an exported report.
type BatchReportSummary struct {
	Title        string    `json:"title"`
	GeneratedAt  time.Time `json:"generated_at"`
	TotalTasks   int       `json:"total_tasks"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
}

// Summarize builds the summary block for a set of process results.
func Summarize(title string, results []ProcessResult) BatchReportSummary {
	s := BatchReportSummary{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		TotalTasks:  len(results),
	}
	for _, r := range results {
		if r.Success {
			s.SuccessCount++
		} else {
			s.FailureCount++
		}
	}
	return s
}
