package attendance

import (
	"math"
	"time"
)

// Status classifies a day's record. The four stored labels live on the
// record; StatusNotMarked is only ever reported for a day with no record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"

	StatusNotMarked Status = "not-marked"
)

// StoredStatuses are the labels a persisted record may carry.
var StoredStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusHalfDay),
}

type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time // midnight in the reference timezone
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	TotalHours   float64
	CreatedAt    time.Time

	// Joined employee fields, populated on team views and exports
	EmployeeCode       *string
	EmployeeName       *string
	EmployeeEmail      *string
	EmployeeDepartment *string
}

// StatusCount is one grouped-aggregation row from the store.
type StatusCount struct {
	Status     Status
	Count      int
	TotalHours float64
}

// SummaryTotals is a reduction over a set of records. It is always
// recomputed from the store, never persisted.
type SummaryTotals struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	HalfDay    int     `json:"halfDay"`
	TotalDays  int     `json:"totalDays"`
	TotalHours float64 `json:"totalHours"`
}

func (s *SummaryTotals) add(status Status, count int, hours float64) {
	switch status {
	case StatusPresent:
		s.Present += count
	case StatusAbsent:
		s.Absent += count
	case StatusLate:
		s.Late += count
	case StatusHalfDay:
		s.HalfDay += count
	default:
		// tolerant reducer: unknown labels are ignored entirely
		return
	}
	s.TotalDays += count
	s.TotalHours += hours
}

// NewSummaryTotals reduces grouped rows into totals. Order independent.
func NewSummaryTotals(rows []StatusCount) SummaryTotals {
	var totals SummaryTotals
	for _, row := range rows {
		totals.add(row.Status, row.Count, row.TotalHours)
	}
	return totals
}

// SummarizeRecords reduces raw records into totals, for views that already
// hold the record list.
func SummarizeRecords(records []Attendance) SummaryTotals {
	var totals SummaryTotals
	for _, rec := range records {
		totals.add(rec.Status, 1, rec.TotalHours)
	}
	return totals
}

// RoundHours rounds a worked-hours figure to 2 decimal places.
func RoundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}

// WorkedHours computes the rounded hours between check-in and check-out.
// A check-out that reads earlier than the check-in clamps to zero.
func WorkedHours(checkIn, checkOut time.Time) float64 {
	hours := checkOut.Sub(checkIn).Hours()
	if hours < 0 {
		return 0
	}
	return RoundHours(hours)
}
