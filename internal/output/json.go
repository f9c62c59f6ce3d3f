package output

import (
	"math"

	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/store"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// BrewResponse wraps a single brew.
type BrewResponse struct {
	Status string      `json:"status"`
	Brew   *model.Brew `json:"brew"`
}

// BrewsResponse represents the list output in JSON.
type BrewsResponse struct {
	Brews      []*model.Brew `json:"brews"`
	TotalCount int           `json:"total_count"`
	ShownCount int           `json:"shown_count"`
	// Average is over all stored brews and null when there are none.
	Average *float64 `json:"average"`
}

// NotFoundResponse reports an id that matched nothing.
type NotFoundResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// StatsResponse represents statistics output in JSON.
type StatsResponse struct {
	store.Stats
	AverageDisplay string `json:"average_display"`
}

// ImportResponse represents an import in JSON.
type ImportResponse struct {
	Status string `json:"status"`
	store.ImportReport
}

// ExportResponse represents an export in JSON.
type ExportResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// roundAverage rounds to one decimal place for display.
func roundAverage(avg float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	rounded := math.Round(avg*10) / 10
	return &rounded
}

// PrintBrew outputs a single brew with a status word.
func (j *JSONFormatter) PrintBrew(status string, b *model.Brew) error {
	return j.JSON(BrewResponse{Status: status, Brew: b})
}

// PrintBrews outputs a list of brews.
func (j *JSONFormatter) PrintBrews(brews []*model.Brew, total int, avg float64, hasAvg bool) error {
	if brews == nil {
		brews = []*model.Brew{}
	}
	return j.JSON(BrewsResponse{
		Brews:      brews,
		TotalCount: total,
		ShownCount: len(brews),
		Average:    roundAverage(avg, hasAvg),
	})
}

// PrintNotFound outputs a not-found notice.
func (j *JSONFormatter) PrintNotFound(id string) error {
	return j.JSON(NotFoundResponse{Status: "not_found", ID: id})
}

// PrintStats outputs statistics.
func (j *JSONFormatter) PrintStats(stats store.Stats) error {
	return j.JSON(StatsResponse{
		Stats:          stats,
		AverageDisplay: FormatAverage(stats.Average, stats.HasData),
	})
}

// PrintImportReport outputs an import report.
func (j *JSONFormatter) PrintImportReport(report store.ImportReport) error {
	status := "imported"
	if report.DryRun {
		status = "dry_run"
	}
	return j.JSON(ImportResponse{Status: status, ImportReport: report})
}

// PrintExported outputs an export confirmation.
func (j *JSONFormatter) PrintExported(path string, count int) error {
	return j.JSON(ExportResponse{Status: "exported", Path: path, Count: count})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(errMsg, category, suggestion string) error {
	return j.JSON(ErrorResponse{
		Status:     "error",
		Error:      errMsg,
		Category:   category,
		Suggestion: suggestion,
	})
}

// PrintStatus outputs a bare status word, for commands with nothing else to say.
func (j *JSONFormatter) PrintStatus(status string) error {
	return j.JSON(map[string]string{"status": status})
}
