package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/report"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	clock          clock.Clock
	collector      *metrics.Collector
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	clk clock.Clock,
	collector *metrics.Collector,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		clock:          clk,
		collector:      collector,
	}
}

// parseDay parses a "YYYY-MM-DD" bound in the reference timezone.
func (s *ReportServiceImpl) parseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, s.clock.Now().Location())
	if err != nil {
		return time.Time{}, attendance.ErrInvalidDateFilter
	}
	return t, nil
}

// listFilter translates the validated team filter into a store scan. Date
// bounds become the closed [startOfDay(from), endOfDay(to)] interval.
func (s *ReportServiceImpl) listFilter(filter report.TeamFilter) (attendance.ListFilter, error) {
	lf := attendance.ListFilter{WithEmployee: true}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		lf.EmployeeID = filter.EmployeeID
	}
	if filter.Status != nil && *filter.Status != "" {
		status := attendance.Status(*filter.Status)
		lf.Status = &status
	}
	if filter.From != nil && *filter.From != "" {
		day, err := s.parseDay(*filter.From)
		if err != nil {
			return attendance.ListFilter{}, err
		}
		from := clock.StartOfDay(day)
		lf.From = &from
	}
	if filter.To != nil && *filter.To != "" {
		day, err := s.parseDay(*filter.To)
		if err != nil {
			return attendance.ListFilter{}, err
		}
		to := clock.EndOfDay(day)
		lf.To = &to
	}

	return lf, nil
}

// TeamRecords implements report.ReportService.
func (s *ReportServiceImpl) TeamRecords(ctx context.Context, filter report.TeamFilter) (report.TeamRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.TeamRecordsResponse{}, err
	}

	lf, err := s.listFilter(filter)
	if err != nil {
		return report.TeamRecordsResponse{}, err
	}

	records, err := s.attendanceRepo.List(ctx, lf)
	if err != nil {
		return report.TeamRecordsResponse{}, fmt.Errorf("failed to list team records: %w", err)
	}

	s.collector.RecordReportScan("team")
	return report.TeamRecordsResponse{
		Count:   len(records),
		Records: attendance.NewAttendanceResponses(records),
	}, nil
}

// TeamSummary implements report.ReportService. Without an explicit range
// the window is the current calendar month.
func (s *ReportServiceImpl) TeamSummary(ctx context.Context, filter report.RangeFilter) (attendance.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	from, to := clock.MonthRange(s.clock.Now())
	if filter.From != nil && *filter.From != "" {
		day, err := s.parseDay(*filter.From)
		if err != nil {
			return attendance.SummaryResponse{}, err
		}
		from = clock.StartOfDay(day)
	}
	if filter.To != nil && *filter.To != "" {
		day, err := s.parseDay(*filter.To)
		if err != nil {
			return attendance.SummaryResponse{}, err
		}
		to = clock.EndOfDay(day)
	}

	rows, err := s.attendanceRepo.SummarizeByStatus(ctx, attendance.ListFilter{
		From: &from,
		To:   &to,
	})
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to summarize team attendance: %w", err)
	}

	s.collector.RecordReportScan("team")
	return attendance.SummaryResponse{
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
		Summary: attendance.NewSummaryTotals(rows),
	}, nil
}

// TodayTeamStatus implements report.ReportService. It returns the raw
// record list alongside the totals so a manager can see who specifically
// is present, late or absent right now.
func (s *ReportServiceImpl) TodayTeamStatus(ctx context.Context) (report.TodayTeamStatusResponse, error) {
	from, to := clock.DayRange(s.clock.Now())

	records, err := s.attendanceRepo.List(ctx, attendance.ListFilter{
		From:         &from,
		To:           &to,
		WithEmployee: true,
	})
	if err != nil {
		return report.TodayTeamStatusResponse{}, fmt.Errorf("failed to list today's records: %w", err)
	}

	s.collector.RecordReportScan("today")
	return report.TodayTeamStatusResponse{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
		Summary: report.TodayTeamSummary{
			SummaryTotals: attendance.SummarizeRecords(records),
			Total:         len(records),
		},
		Records: attendance.NewAttendanceResponses(records),
	}, nil
}

// ExportRows implements report.ReportService. A pure projection of
// TeamRecords; CSV framing belongs to the transport layer.
func (s *ReportServiceImpl) ExportRows(ctx context.Context, filter report.TeamFilter) ([]report.ExportRow, error) {
	result, err := s.TeamRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]report.ExportRow, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, report.ExportRow{
			EmployeeCode: strOrEmpty(rec.EmployeeCode),
			Name:         strOrEmpty(rec.EmployeeName),
			Email:        strOrEmpty(rec.EmployeeEmail),
			Department:   strOrEmpty(rec.EmployeeDepartment),
			Date:         rec.Date,
			CheckIn:      strOrEmpty(rec.CheckInTime),
			CheckOut:     strOrEmpty(rec.CheckOutTime),
			Status:       string(rec.Status),
			TotalHours:   strconv.FormatFloat(rec.TotalHours, 'f', 2, 64),
		})
	}

	return rows, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
