package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock     clock.Clock
	policy    attendance.StatusPolicy
	collector *metrics.Collector
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	clk clock.Clock,
	policy attendance.StatusPolicy,
	collector *metrics.Collector,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		clock:                clk,
		policy:               policy,
		collector:            collector,
	}
}

// employeeIDFromContext extracts the caller's employee identifier from JWT
// claims. Self-scope operations are always pinned to this identifier.
func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	if !validator.IsValidUUID(employeeID) {
		return "", attendance.ErrInvalidEmployeeID
	}

	return employeeID, nil
}

// CheckIn implements attendance.AttendanceService.
//
// The repository upsert is conditional on the record not yet carrying a
// check-in time, so two concurrent check-ins cannot both succeed and a
// record a manager pre-assigned (absent, no check-in) is claimed in place.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.StartOfDay(now)
	status := s.policy.Classify(now)

	att, err := s.AttendanceRepository.CheckIn(ctx, employeeID, today, now, status)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			s.collector.RecordRejectedTransition("already_checked_in")
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	s.collector.RecordCheckIn()
	return attendance.NewAttendanceResponse(att), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.StartOfDay(now)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}

	if existing == nil || existing.CheckInTime == nil {
		s.collector.RecordRejectedTransition("check_in_required")
		return attendance.AttendanceResponse{}, attendance.ErrCheckInRequired
	}
	if existing.CheckOutTime != nil {
		s.collector.RecordRejectedTransition("already_checked_out")
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// A skewed clock may read earlier than the stored check-in; clamp so
	// check_out_time >= check_in_time always holds and hours stay zero.
	checkOut := now
	if checkOut.Before(*existing.CheckInTime) {
		checkOut = *existing.CheckInTime
	}
	totalHours := attendance.WorkedHours(*existing.CheckInTime, checkOut)

	att, err := s.AttendanceRepository.CompleteCheckOut(ctx, employeeID, today, checkOut, totalHours)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			// concurrent check-out completed the day between the read and
			// the guarded update
			s.collector.RecordRejectedTransition("already_checked_out")
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	s.collector.RecordCheckOut()
	return attendance.NewAttendanceResponse(att), nil
}

// TodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := clock.StartOfDay(s.clock.Now())

	att, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}

	if att == nil {
		// a day with no record is reported, never materialized as absent
		return attendance.TodayStatusResponse{Status: attendance.StatusNotMarked}, nil
	}

	resp := attendance.NewAttendanceResponse(*att)
	return attendance.TodayStatusResponse{Status: att.Status, Attendance: &resp}, nil
}

// monthWindow resolves an optional "YYYY-MM" filter. Empty defaults to the
// current calendar month.
func (s *AttendanceServiceImpl) monthWindow(month string) (time.Time, time.Time, error) {
	if month == "" {
		from, to := clock.MonthRange(s.clock.Now())
		return from, to, nil
	}
	from, to, err := clock.ParseMonth(month, s.clock.Now().Location())
	if err != nil {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDateFilter
	}
	return from, to, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	listFilter := attendance.ListFilter{EmployeeID: &employeeID}
	if filter.Month != "" {
		from, to, err := s.monthWindow(filter.Month)
		if err != nil {
			return attendance.HistoryResponse{}, err
		}
		listFilter.From = &from
		listFilter.To = &to
	}

	records, err := s.AttendanceRepository.List(ctx, listFilter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list history: %w", err)
	}

	s.collector.RecordReportScan("self")
	return attendance.HistoryResponse{
		Count:   len(records),
		History: attendance.NewAttendanceResponses(records),
	}, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, filter attendance.HistoryFilter) (attendance.SummaryResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	from, to, err := s.monthWindow(filter.Month)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	rows, err := s.AttendanceRepository.SummarizeByStatus(ctx, attendance.ListFilter{
		EmployeeID: &employeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	s.collector.RecordReportScan("self")
	return attendance.SummaryResponse{
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
		Summary: attendance.NewSummaryTotals(rows),
	}, nil
}
