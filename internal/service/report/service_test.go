package report

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/report"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScanRepo is a preloaded, read-only AttendanceRepository for
// exercising the aggregation paths.
type fakeScanRepo struct {
	records []attendance.Attendance
}

func (f *fakeScanRepo) CheckIn(ctx context.Context, employeeID string, date time.Time, checkInTime time.Time, status attendance.Status) (attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeScanRepo) CompleteCheckOut(ctx context.Context, employeeID string, date time.Time, checkOutTime time.Time, totalHours float64) (attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeScanRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeScanRepo) matches(rec attendance.Attendance, filter attendance.ListFilter) bool {
	if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
		return false
	}
	if filter.Status != nil && rec.Status != *filter.Status {
		return false
	}
	if filter.From != nil && rec.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && rec.Date.After(*filter.To) {
		return false
	}
	return true
}

func (f *fakeScanRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if f.matches(rec, filter) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeScanRepo) SummarizeByStatus(ctx context.Context, filter attendance.ListFilter) ([]attendance.StatusCount, error) {
	grouped := make(map[attendance.Status]*attendance.StatusCount)
	for _, rec := range f.records {
		if !f.matches(rec, filter) {
			continue
		}
		row, ok := grouped[rec.Status]
		if !ok {
			row = &attendance.StatusCount{Status: rec.Status}
			grouped[rec.Status] = row
		}
		row.Count++
		row.TotalHours += rec.TotalHours
	}

	var out []attendance.StatusCount
	for _, row := range grouped {
		out = append(out, *row)
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func demoRecord(employeeID, code string, day time.Time, status attendance.Status, hours float64) attendance.Attendance {
	checkIn := day.Add(9 * time.Hour)
	rec := attendance.Attendance{
		ID:                 uuid.NewString(),
		EmployeeID:         employeeID,
		Date:               day,
		Status:             status,
		TotalHours:         hours,
		CreatedAt:          checkIn,
		EmployeeCode:       strPtr(code),
		EmployeeName:       strPtr("Employee " + code),
		EmployeeEmail:      strPtr(code + "@attendly.dev"),
		EmployeeDepartment: strPtr("Engineering"),
	}
	if status != attendance.StatusAbsent {
		checkOut := checkIn.Add(time.Duration(hours * float64(time.Hour)))
		rec.CheckInTime = &checkIn
		rec.CheckOutTime = &checkOut
	}
	return rec
}

func newTestReportService(repo attendance.AttendanceRepository, now time.Time) report.ReportService {
	collector := metrics.NewCollector(prometheus.NewRegistry())
	return NewReportService(repo, clock.NewFixed(now), collector)
}

func TestReportService_TeamRecords_RangeIsInclusive(t *testing.T) {
	empA := uuid.NewString()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	repo := &fakeScanRepo{records: []attendance.Attendance{
		demoRecord(empA, "EMP-0001", day(1), attendance.StatusPresent, 8),
		demoRecord(empA, "EMP-0001", day(5), attendance.StatusLate, 7.5),
		demoRecord(empA, "EMP-0001", day(10), attendance.StatusPresent, 8),
	}}
	svc := newTestReportService(repo, day(15))

	resp, err := svc.TeamRecords(context.Background(), report.TeamFilter{
		From: strPtr("2024-03-01"),
		To:   strPtr("2024-03-05"),
	})

	require.NoError(t, err)
	// both boundary days are in
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "2024-03-05", resp.Records[0].Date)
	assert.Equal(t, "2024-03-01", resp.Records[1].Date)
}

func TestReportService_TeamRecords_FilterByEmployeeAndStatus(t *testing.T) {
	empA := uuid.NewString()
	empB := uuid.NewString()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	repo := &fakeScanRepo{records: []attendance.Attendance{
		demoRecord(empA, "EMP-0001", day, attendance.StatusLate, 7),
		demoRecord(empB, "EMP-0002", day, attendance.StatusPresent, 8),
	}}
	svc := newTestReportService(repo, day)

	resp, err := svc.TeamRecords(context.Background(), report.TeamFilter{
		EmployeeID: &empA,
		Status:     strPtr("late"),
	})

	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, empA, resp.Records[0].EmployeeID)
	assert.Equal(t, attendance.StatusLate, resp.Records[0].Status)
}

func TestReportService_TeamRecords_InvalidFilters(t *testing.T) {
	svc := newTestReportService(&fakeScanRepo{}, time.Now())
	ctx := context.Background()

	_, err := svc.TeamRecords(ctx, report.TeamFilter{EmployeeID: strPtr("not-a-uuid")})
	assert.ErrorIs(t, err, attendance.ErrInvalidEmployeeID)

	_, err = svc.TeamRecords(ctx, report.TeamFilter{From: strPtr("03/01/2024")})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateFilter)

	_, err = svc.TeamRecords(ctx, report.TeamFilter{Status: strPtr("vacation")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestReportService_TeamSummary_ReducesByStatus(t *testing.T) {
	empA := uuid.NewString()
	empB := uuid.NewString()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	repo := &fakeScanRepo{records: []attendance.Attendance{
		demoRecord(empA, "EMP-0001", day(1), attendance.StatusPresent, 8),
		demoRecord(empA, "EMP-0001", day(4), attendance.StatusLate, 7),
		demoRecord(empB, "EMP-0002", day(1), attendance.StatusPresent, 8.5),
		demoRecord(empB, "EMP-0002", day(4), attendance.StatusAbsent, 0),
		demoRecord(empB, "EMP-0002", day(5), attendance.StatusHalfDay, 4),
	}}
	svc := newTestReportService(repo, day(15))

	resp, err := svc.TeamSummary(context.Background(), report.RangeFilter{})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", resp.From)
	assert.Equal(t, "2024-03-31", resp.To)
	assert.Equal(t, attendance.SummaryTotals{
		Present:    2,
		Absent:     1,
		Late:       1,
		HalfDay:    1,
		TotalDays:  5,
		TotalHours: 27.5,
	}, resp.Summary)
}

func TestReportService_TeamSummary_ExplicitRange(t *testing.T) {
	empA := uuid.NewString()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	repo := &fakeScanRepo{records: []attendance.Attendance{
		demoRecord(empA, "EMP-0001", day(1), attendance.StatusPresent, 8),
		demoRecord(empA, "EMP-0001", day(20), attendance.StatusPresent, 8),
	}}
	svc := newTestReportService(repo, day(25))

	resp, err := svc.TeamSummary(context.Background(), report.RangeFilter{
		From: strPtr("2024-03-01"),
		To:   strPtr("2024-03-10"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", resp.From)
	assert.Equal(t, "2024-03-10", resp.To)
	assert.Equal(t, 1, resp.Summary.TotalDays)
}

func TestReportService_TodayTeamStatus(t *testing.T) {
	empA := uuid.NewString()
	empB := uuid.NewString()
	empC := uuid.NewString()
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	repo := &fakeScanRepo{records: []attendance.Attendance{
		demoRecord(empA, "EMP-0001", today, attendance.StatusPresent, 8),
		demoRecord(empB, "EMP-0002", today, attendance.StatusLate, 0),
		demoRecord(empC, "EMP-0003", yesterday, attendance.StatusPresent, 8),
	}}
	svc := newTestReportService(repo, today.Add(14*time.Hour))

	resp, err := svc.TodayTeamStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", resp.From)
	assert.Equal(t, "2024-03-04", resp.To)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Present)
	assert.Equal(t, 1, resp.Summary.Late)
	assert.Len(t, resp.Records, 2)
}

func TestReportService_ExportRows(t *testing.T) {
	empA := uuid.NewString()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	repo := &fakeScanRepo{records: []attendance.Attendance{
		demoRecord(empA, "EMP-0001", day, attendance.StatusPresent, 8),
		demoRecord(empA, "EMP-0001", day.AddDate(0, 0, 1), attendance.StatusAbsent, 0),
	}}
	svc := newTestReportService(repo, day.AddDate(0, 0, 7))

	rows, err := svc.ExportRows(context.Background(), report.TeamFilter{})

	require.NoError(t, err)
	require.Len(t, rows, 2)

	// date descending, absent row has empty clock times
	assert.Equal(t, "2024-03-05", rows[0].Date)
	assert.Equal(t, "absent", rows[0].Status)
	assert.Empty(t, rows[0].CheckIn)
	assert.Empty(t, rows[0].CheckOut)
	assert.Equal(t, "0.00", rows[0].TotalHours)

	assert.Equal(t, "EMP-0001", rows[1].EmployeeCode)
	assert.Equal(t, "Employee EMP-0001", rows[1].Name)
	assert.Equal(t, "EMP-0001@attendly.dev", rows[1].Email)
	assert.Equal(t, "Engineering", rows[1].Department)
	assert.Equal(t, "2024-03-04", rows[1].Date)
	assert.Equal(t, "present", rows[1].Status)
	assert.Equal(t, "8.00", rows[1].TotalHours)
	assert.NotEmpty(t, rows[1].CheckIn)
	assert.NotEmpty(t, rows[1].CheckOut)
}
