package attendance

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// timePtrToString safely formats a *time.Time.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

type AttendanceResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeCode       *string `json:"employee_code,omitempty"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	EmployeeEmail      *string `json:"employee_email,omitempty"`
	EmployeeDepartment *string `json:"employee_department,omitempty"`
	Date               string  `json:"date"`
	CheckInTime        *string `json:"check_in_time,omitempty"`
	CheckOutTime       *string `json:"check_out_time,omitempty"`
	Status             Status  `json:"status"`
	TotalHours         float64 `json:"total_hours"`
	CreatedAt          string  `json:"created_at"`
}

// NewAttendanceResponse projects a record into its API shape.
func NewAttendanceResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		EmployeeCode:       att.EmployeeCode,
		EmployeeName:       att.EmployeeName,
		EmployeeEmail:      att.EmployeeEmail,
		EmployeeDepartment: att.EmployeeDepartment,
		Date:               att.Date.Format("2006-01-02"),
		CheckInTime:        timePtrToString(att.CheckInTime),
		CheckOutTime:       timePtrToString(att.CheckOutTime),
		Status:             att.Status,
		TotalHours:         att.TotalHours,
		CreatedAt:          att.CreatedAt.Format(time.RFC3339),
	}
}

func NewAttendanceResponses(atts []Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(atts))
	for _, att := range atts {
		responses = append(responses, NewAttendanceResponse(att))
	}
	return responses
}

// TodayStatusResponse reports the caller's day. Status is not-marked and
// Attendance nil when no record exists yet.
type TodayStatusResponse struct {
	Status     Status              `json:"status"`
	Attendance *AttendanceResponse `json:"attendance"`
}

// HistoryFilter narrows self-scope history and summaries to one calendar
// month ("YYYY-MM"). Empty means the current month for summaries and the
// full history for record lists.
type HistoryFilter struct {
	Month string `json:"month,omitempty"`
}

func (f *HistoryFilter) Validate() error {
	if f.Month != "" && !validator.IsValidMonth(f.Month) {
		return ErrInvalidDateFilter
	}
	return nil
}

// HistoryResponse is a date-descending record list with its count.
type HistoryResponse struct {
	Count   int                  `json:"count"`
	History []AttendanceResponse `json:"history"`
}

// SummaryResponse carries totals together with the window they cover.
type SummaryResponse struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Summary SummaryTotals `json:"summary"`
}
