package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// storeErr tags a driver failure with the store-unavailable sentinel so the
// transport layer can answer 503 instead of a generic 500.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, attendance.ErrStoreUnavailable)
}

const attendanceColumns = `id, employee_id, date, check_in_time, check_out_time, status, total_hours, created_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.CheckInTime, &att.CheckOutTime,
		&att.Status, &att.TotalHours, &att.CreatedAt,
	)
	return att, err
}

// CheckIn implements attendance.AttendanceRepository.
//
// The upsert is the atomic conditional write that makes "at most one
// successful check-in per (employee, date)" hold under concurrency: the
// unique (employee_id, date) index funnels racing inserts into the ON
// CONFLICT branch, and that branch only fires while check_in_time is still
// NULL. A row pre-assigned by a manager (status set, no check-in yet) is
// claimed the same way.
func (a *attendanceRepository) CheckIn(ctx context.Context, employeeID string, date time.Time, checkInTime time.Time, status attendance.Status) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, check_in_time, status, total_hours)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
		    status        = EXCLUDED.status
		WHERE attendances.check_in_time IS NULL
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query,
		uuid.NewString(), employeeID, date, checkInTime, status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// conflict row already carries a check-in time
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, storeErr("failed to check in", err)
	}

	return att, nil
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompleteCheckOut(ctx context.Context, employeeID string, date time.Time, checkOutTime time.Time, totalHours float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $3,
		    total_hours    = $4
		WHERE employee_id = $1
		  AND date = $2
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, checkOutTime, totalHours))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// the guarded update found nothing to complete; a concurrent
			// check-out won the race
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, storeErr("failed to check out", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for this day
		}
		return nil, storeErr("failed to get attendance by employee and date", err)
	}

	return &att, nil
}

// buildWhere renders the filter into a WHERE clause. Date bounds compare
// against the record's calendar date, so both ends are inclusive.
func buildWhere(filter attendance.ListFilter) (string, []interface{}) {
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	return baseWhere, args
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere, args := buildWhere(filter)

	var selectQuery string
	if filter.WithEmployee {
		selectQuery = fmt.Sprintf(`
			SELECT
				a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
				a.status, a.total_hours, a.created_at,
				e.employee_code, e.name, e.email, e.department
			FROM attendances a
			LEFT JOIN employees e ON e.id = a.employee_id
			WHERE %s
			ORDER BY a.date DESC, e.employee_code ASC
		`, baseWhere)
	} else {
		selectQuery = fmt.Sprintf(`
			SELECT
				a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
				a.status, a.total_hours, a.created_at
			FROM attendances a
			WHERE %s
			ORDER BY a.date DESC
		`, baseWhere)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, storeErr("failed to query attendances", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if filter.WithEmployee {
			err = rows.Scan(
				&att.ID, &att.EmployeeID, &att.Date, &att.CheckInTime, &att.CheckOutTime,
				&att.Status, &att.TotalHours, &att.CreatedAt,
				&att.EmployeeCode, &att.EmployeeName, &att.EmployeeEmail, &att.EmployeeDepartment,
			)
		} else {
			err = rows.Scan(
				&att.ID, &att.EmployeeID, &att.Date, &att.CheckInTime, &att.CheckOutTime,
				&att.Status, &att.TotalHours, &att.CreatedAt,
			)
		}
		if err != nil {
			return nil, storeErr("failed to scan attendance", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to read attendances", err)
	}

	return attendances, nil
}

// SummarizeByStatus implements attendance.AttendanceRepository. Totals are
// always recomputed from the current table state; there are no maintained
// counters to drift.
func (a *attendanceRepository) SummarizeByStatus(ctx context.Context, filter attendance.ListFilter) ([]attendance.StatusCount, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere, args := buildWhere(filter)

	query := fmt.Sprintf(`
		SELECT a.status, COUNT(*), COALESCE(SUM(a.total_hours), 0)
		FROM attendances a
		WHERE %s
		GROUP BY a.status
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to summarize attendances", err)
	}
	defer rows.Close()

	var counts []attendance.StatusCount
	for rows.Next() {
		var sc attendance.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count, &sc.TotalHours); err != nil {
			return nil, storeErr("failed to scan status count", err)
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to read status counts", err)
	}

	return counts, nil
}
