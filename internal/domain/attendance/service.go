package attendance

import (
	"context"
)

// AttendanceService is the employee-facing surface: the per-day state
// machine plus self-scope aggregation. Every operation resolves the
// employee from the caller's access token; the filter cannot be overridden.
type AttendanceService interface {
	// CheckIn records the first check-in of the caller's day
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut completes the caller's day and computes total hours
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	// TodayStatus reports the caller's current day, not-marked when no
	// record exists
	TodayStatus(ctx context.Context) (TodayStatusResponse, error)

	// History lists the caller's records, date descending
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)

	// Summary reduces the caller's records over the month window
	Summary(ctx context.Context, filter HistoryFilter) (SummaryResponse, error)
}
