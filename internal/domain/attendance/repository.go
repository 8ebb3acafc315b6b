package attendance

import (
	"context"
	"time"
)

// ListFilter narrows record scans. Date bounds are closed on both ends;
// a nil field leaves that dimension unfiltered.
type ListFilter struct {
	EmployeeID *string
	Status     *Status
	From       *time.Time
	To         *time.Time

	// WithEmployee joins employee code/name/email/department into the
	// returned records (team views and exports).
	WithEmployee bool
}

// AttendanceRepository defines data access for attendance records. The two
// write operations are conditional so that concurrent transitions for the
// same (employee, date) cannot both succeed.
type AttendanceRepository interface {
	// CheckIn atomically creates today's record with the check-in time
	// set, or claims an existing record whose check-in time is still
	// unset (a pre-assigned status row). Returns ErrAlreadyCheckedIn
	// when the record already has a check-in time.
	CheckIn(ctx context.Context, employeeID string, date time.Time, checkInTime time.Time, status Status) (Attendance, error)

	// CompleteCheckOut sets the check-out time and total hours, guarded
	// on the check-out time still being unset. Returns
	// ErrAlreadyCheckedOut when a concurrent check-out won the race.
	CompleteCheckOut(ctx context.Context, employeeID string, date time.Time, checkOutTime time.Time, totalHours float64) (Attendance, error)

	// GetByEmployeeAndDate retrieves one day's record; (nil, nil) when no
	// record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// List retrieves matching records ordered by date descending.
	List(ctx context.Context, filter ListFilter) ([]Attendance, error)

	// SummarizeByStatus groups matching records by status and returns
	// per-status counts and summed hours.
	SummarizeByStatus(ctx context.Context, filter ListFilter) ([]StatusCount, error)
}
