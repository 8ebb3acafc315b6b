package http

import (
	"encoding/csv"
	"log/slog"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/report"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	TeamRecords(w http.ResponseWriter, r *http.Request)
	EmployeeRecords(w http.ResponseWriter, r *http.Request)
	TeamSummary(w http.ResponseWriter, r *http.Request)
	TodayTeamStatus(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func teamFilterFromQuery(r *http.Request) report.TeamFilter {
	filter := report.TeamFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}

	return filter
}

// TeamRecords implements ReportHandler.
func (h *reportHandlerImpl) TeamRecords(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TeamRecords(r.Context(), teamFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EmployeeRecords implements ReportHandler. Same scan as TeamRecords with
// the employee pinned from the URL.
func (h *reportHandlerImpl) EmployeeRecords(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	filter := teamFilterFromQuery(r)
	filter.EmployeeID = &employeeID

	result, err := h.reportService.TeamRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamSummary implements ReportHandler.
func (h *reportHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	filter := report.RangeFilter{}
	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}

	result, err := h.reportService.TeamSummary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TodayTeamStatus implements ReportHandler.
func (h *reportHandlerImpl) TodayTeamStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TodayTeamStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

var exportHeader = []string{
	"Employee Code", "Name", "Email", "Department",
	"Date", "Check In", "Check Out", "Status", "Total Hours",
}

// ExportCSV implements ReportHandler. The rows come from the report
// service; only the CSV framing happens here.
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.ExportRows(r.Context(), teamFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		slog.Error("Failed to write CSV header", "error", err)
		return
	}
	for _, row := range rows {
		record := []string{
			row.EmployeeCode, row.Name, row.Email, row.Department,
			row.Date, row.CheckIn, row.CheckOut, row.Status, row.TotalHours,
		}
		if err := cw.Write(record); err != nil {
			slog.Error("Failed to write CSV row", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("Failed to flush CSV", "error", err)
	}
}
