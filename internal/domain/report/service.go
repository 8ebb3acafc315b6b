package report

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

// ReportService is the manager-facing surface: team-scope aggregation over
// arbitrary employees, statuses and date ranges.
type ReportService interface {
	// TeamRecords lists matching records with employee details joined,
	// date descending
	TeamRecords(ctx context.Context, filter TeamFilter) (TeamRecordsResponse, error)

	// TeamSummary reduces the whole population over the range; the
	// current calendar month when no range is given
	TeamSummary(ctx context.Context, filter RangeFilter) (attendance.SummaryResponse, error)

	// TodayTeamStatus reports today's records and totals so a manager can
	// see who is present, late or absent right now
	TodayTeamStatus(ctx context.Context) (TodayTeamStatusResponse, error)

	// ExportRows projects TeamRecords into tabular export rows
	ExportRows(ctx context.Context, filter TeamFilter) ([]ExportRow, error)
}
