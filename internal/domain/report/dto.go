package report

import (
	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// TeamFilter narrows manager-facing record queries. All fields are
// optional; omitted dates leave the range open on that side.
type TeamFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *TeamFilter) Validate() error {
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		return attendance.ErrInvalidEmployeeID
	}

	if f.From != nil && *f.From != "" {
		if _, ok := validator.IsValidDate(*f.From); !ok {
			return attendance.ErrInvalidDateFilter
		}
	}
	if f.To != nil && *f.To != "" {
		if _, ok := validator.IsValidDate(*f.To); !ok {
			return attendance.ErrInvalidDateFilter
		}
	}

	if f.Status != nil && *f.Status != "" {
		if !validator.IsInSlice(*f.Status, attendance.StoredStatuses) {
			return validator.ValidationErrors{{
				Field:   "status",
				Message: "status must be one of: present, absent, late, half-day",
			}}
		}
	}

	return nil
}

// RangeFilter narrows a team summary to a date range.
type RangeFilter struct {
	From *string `json:"from,omitempty"` // YYYY-MM-DD
	To   *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *RangeFilter) Validate() error {
	tf := TeamFilter{From: f.From, To: f.To}
	return tf.Validate()
}

// TeamRecordsResponse is a date-descending record list for team views.
type TeamRecordsResponse struct {
	Count   int                             `json:"count"`
	Records []attendance.AttendanceResponse `json:"records"`
}

// TodayTeamSummary extends the standard totals with the number of records
// seen today, so "who is in right now" views can show a denominator.
type TodayTeamSummary struct {
	attendance.SummaryTotals
	Total int `json:"total"`
}

// TodayTeamStatusResponse carries both the reduced summary and the raw
// record list for the current day.
type TodayTeamStatusResponse struct {
	From    string                          `json:"from"`
	To      string                          `json:"to"`
	Summary TodayTeamSummary                `json:"summary"`
	Records []attendance.AttendanceResponse `json:"records"`
}

// ExportRow is one line of the tabular attendance export. Rendering the
// rows (CSV framing, headers) is the transport layer's job.
type ExportRow struct {
	EmployeeCode string
	Name         string
	Email        string
	Department   string
	Date         string
	CheckIn      string
	CheckOut     string
	Status       string
	TotalHours   string
}
