package attendance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttendanceRepo is an in-memory AttendanceRepository with the same
// conditional-write semantics as the SQL implementation, so the state
// machine can be exercised without a database.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) CheckIn(ctx context.Context, employeeID string, date time.Time, checkInTime time.Time, status attendance.Status) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := recordKey(employeeID, date)
	if existing, ok := f.records[key]; ok {
		if existing.CheckInTime != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckInTime = &checkInTime
		existing.Status = status
		return *existing, nil
	}

	rec := &attendance.Attendance{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Date:        date,
		CheckInTime: &checkInTime,
		Status:      status,
		CreatedAt:   checkInTime,
	}
	f.records[key] = rec
	return *rec, nil
}

func (f *fakeAttendanceRepo) CompleteCheckOut(ctx context.Context, employeeID string, date time.Time, checkOutTime time.Time, totalHours float64) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.records[recordKey(employeeID, date)]
	if !ok || existing.CheckInTime == nil || existing.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	existing.CheckOutTime = &checkOutTime
	existing.TotalHours = totalHours
	return *existing, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.records[recordKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	copied := *existing
	return &copied, nil
}

func (f *fakeAttendanceRepo) matches(rec *attendance.Attendance, filter attendance.ListFilter) bool {
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

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Attendance
	for _, rec := range f.records {
		if f.matches(rec, filter) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAttendanceRepo) SummarizeByStatus(ctx context.Context, filter attendance.ListFilter) ([]attendance.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

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

// stepClock is a settable Clock so one test can move through a working day.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func authedContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        "EMPLOYEE",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(repo attendance.AttendanceRepository, clk clock.Clock) attendance.AttendanceService {
	policy, _ := attendance.NewStatusPolicy("", "")
	collector := metrics.NewCollector(prometheus.NewRegistry())
	return NewAttendanceService(repo, clk, policy, collector)
}

func TestAttendanceService_CheckIn_CreatesTodayRecord(t *testing.T) {
	repo := newFakeAttendanceRepo()
	now := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	svc := newTestService(repo, clock.NewFixed(now))

	employeeID := uuid.NewString()
	resp, err := svc.CheckIn(authedContext(t, employeeID))

	require.NoError(t, err)
	assert.Equal(t, employeeID, resp.EmployeeID)
	assert.Equal(t, "2024-03-01", resp.Date)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, now.Format(time.RFC3339), *resp.CheckInTime)
	assert.Nil(t, resp.CheckOutTime)
	assert.Equal(t, float64(0), resp.TotalHours)
}

func TestAttendanceService_CheckIn_Twice(t *testing.T) {
	repo := newFakeAttendanceRepo()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, clock.NewFixed(now))

	ctx := authedContext(t, uuid.NewString())
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_Concurrent(t *testing.T) {
	repo := newFakeAttendanceRepo()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, clock.NewFixed(now))

	ctx := authedContext(t, uuid.NewString())

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckIn(ctx)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestAttendanceService_CheckOut_WithoutCheckIn(t *testing.T) {
	repo := newFakeAttendanceRepo()
	now := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	svc := newTestService(repo, clock.NewFixed(now))

	_, err := svc.CheckOut(authedContext(t, uuid.NewString()))
	assert.ErrorIs(t, err, attendance.ErrCheckInRequired)
}

func TestAttendanceService_CheckOut_ComputesHours(t *testing.T) {
	repo := newFakeAttendanceRepo()
	clk := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clk)

	ctx := authedContext(t, uuid.NewString())
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	clk.Set(time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC))
	resp, err := svc.CheckOut(ctx)

	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.TotalHours)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, "2024-03-01T17:30:00Z", *resp.CheckOutTime)
}

func TestAttendanceService_CheckOut_Twice(t *testing.T) {
	repo := newFakeAttendanceRepo()
	clk := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clk)

	ctx := authedContext(t, uuid.NewString())
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	clk.Set(time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC))
	first, err := svc.CheckOut(ctx)
	require.NoError(t, err)

	clk.Set(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))
	_, err = svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	// first check-out values are untouched by the rejected retry
	today, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, today.Attendance)
	assert.Equal(t, *first.CheckOutTime, *today.Attendance.CheckOutTime)
	assert.Equal(t, first.TotalHours, today.Attendance.TotalHours)
}

func TestAttendanceService_CheckOut_ClockBeforeCheckIn(t *testing.T) {
	repo := newFakeAttendanceRepo()
	clk := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clk)

	ctx := authedContext(t, uuid.NewString())
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	clk.Set(time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC))
	resp, err := svc.CheckOut(ctx)

	require.NoError(t, err)
	assert.Equal(t, float64(0), resp.TotalHours)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, *resp.CheckInTime, *resp.CheckOutTime)
}

func TestAttendanceService_TodayStatus_NotMarked(t *testing.T) {
	repo := newFakeAttendanceRepo()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, clock.NewFixed(now))

	resp, err := svc.TodayStatus(authedContext(t, uuid.NewString()))

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNotMarked, resp.Status)
	assert.Nil(t, resp.Attendance)
}

func TestAttendanceService_History_InvalidMonth(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, clock.NewFixed(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	ctx := authedContext(t, uuid.NewString())
	for _, month := range []string{"2024-13", "03-2024", "2024-3", "banana"} {
		_, err := svc.History(ctx, attendance.HistoryFilter{Month: month})
		assert.ErrorIs(t, err, attendance.ErrInvalidDateFilter, "month %q", month)
	}
}

func TestAttendanceService_History_MonthWindow(t *testing.T) {
	repo := newFakeAttendanceRepo()
	clk := &stepClock{t: time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clk)

	ctx := authedContext(t, uuid.NewString())

	// one February day and two March days
	days := []time.Time{
		time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		clk.Set(day)
		_, err := svc.CheckIn(ctx)
		require.NoError(t, err)
	}

	resp, err := svc.History(ctx, attendance.HistoryFilter{Month: "2024-03"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.History, 2)
	// date descending
	assert.Equal(t, "2024-03-04", resp.History[0].Date)
	assert.Equal(t, "2024-03-01", resp.History[1].Date)

	all, err := svc.History(ctx, attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count)
}

func TestAttendanceService_Summary_FullDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	clk := &stepClock{t: time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)}
	svc := newTestService(repo, clk)

	ctx := authedContext(t, uuid.NewString())
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	clk.Set(time.Date(2024, 3, 1, 17, 5, 0, 0, time.UTC))
	_, err = svc.CheckOut(ctx)
	require.NoError(t, err)

	resp, err := svc.Summary(ctx, attendance.HistoryFilter{Month: "2024-03"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", resp.From)
	assert.Equal(t, "2024-03-31", resp.To)
	assert.Equal(t, attendance.SummaryTotals{
		Present:    1,
		TotalDays:  1,
		TotalHours: 8.0,
	}, resp.Summary)
}

func TestAttendanceService_Summary_DefaultsToCurrentMonth(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, clock.NewFixed(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))

	resp, err := svc.Summary(authedContext(t, uuid.NewString()), attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", resp.From)
	assert.Equal(t, "2024-03-31", resp.To)
	assert.Equal(t, attendance.SummaryTotals{}, resp.Summary)
}

func TestAttendanceService_InvalidIdentityClaim(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))

	_, err := svc.CheckIn(authedContext(t, "not-a-uuid"))
	assert.ErrorIs(t, err, attendance.ErrInvalidEmployeeID)
}
