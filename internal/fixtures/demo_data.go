package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func timePtr(t time.Time) *time.Time { return &t }

// GetDemoEmployees returns the demo roster keyed by email, so reseeding an
// existing database upserts instead of duplicating.
func GetDemoEmployees() []employee.Employee {
	return []employee.Employee{
		{
			EmployeeCode: "EMP-0001",
			Name:         "Maya Prasetyo",
			Email:        "maya.prasetyo@attendly.dev",
			Department:   "Engineering",
			Role:         employee.RoleManager,
		},
		{
			EmployeeCode: "EMP-0002",
			Name:         "Daniel Okafor",
			Email:        "daniel.okafor@attendly.dev",
			Department:   "Engineering",
			Role:         employee.RoleEmployee,
		},
		{
			EmployeeCode: "EMP-0003",
			Name:         "Sari Wibowo",
			Email:        "sari.wibowo@attendly.dev",
			Department:   "Design",
			Role:         employee.RoleEmployee,
		},
		{
			EmployeeCode: "EMP-0004",
			Name:         "Tomás Herrera",
			Email:        "tomas.herrera@attendly.dev",
			Department:   "Operations",
			Role:         employee.RoleEmployee,
		},
	}
}

// DemoRecord describes one back-dated attendance row relative to the seed
// day. DaysAgo counts back from today; check-in and check-out are wall-clock
// "HH:MM" strings in the reference timezone, empty when the row has none.
type DemoRecord struct {
	EmployeeCode string
	DaysAgo      int
	CheckIn      string
	CheckOut     string
	Status       attendance.Status
}

// GetDemoRecords returns a week of history covering every stored status,
// including absent rows with no clock times and a late day left open.
func GetDemoRecords() []DemoRecord {
	return []DemoRecord{
		{EmployeeCode: "EMP-0001", DaysAgo: 1, CheckIn: "08:55", CheckOut: "17:30", Status: attendance.StatusPresent},
		{EmployeeCode: "EMP-0001", DaysAgo: 2, CheckIn: "09:02", CheckOut: "18:10", Status: attendance.StatusPresent},
		{EmployeeCode: "EMP-0002", DaysAgo: 1, CheckIn: "09:47", CheckOut: "18:00", Status: attendance.StatusLate},
		{EmployeeCode: "EMP-0002", DaysAgo: 2, CheckIn: "09:00", CheckOut: "17:00", Status: attendance.StatusPresent},
		{EmployeeCode: "EMP-0002", DaysAgo: 3, Status: attendance.StatusAbsent},
		{EmployeeCode: "EMP-0003", DaysAgo: 1, CheckIn: "09:05", CheckOut: "13:10", Status: attendance.StatusHalfDay},
		{EmployeeCode: "EMP-0003", DaysAgo: 2, CheckIn: "08:58", CheckOut: "17:45", Status: attendance.StatusPresent},
		{EmployeeCode: "EMP-0004", DaysAgo: 1, Status: attendance.StatusAbsent},
		{EmployeeCode: "EMP-0004", DaysAgo: 2, CheckIn: "10:20", Status: attendance.StatusLate},
	}
}

// Seed upserts the demo roster and inserts the back-dated history in one
// transaction. Existing attendance rows for the same employee and date are
// left untouched.
func Seed(ctx context.Context, db *database.DB, employeeRepo employee.EmployeeRepository, loc *time.Location) error {
	byCode := make(map[string]employee.Employee)
	for _, emp := range GetDemoEmployees() {
		saved, err := employeeRepo.Upsert(ctx, emp)
		if err != nil {
			return fmt.Errorf("seed employee %s: %w", emp.EmployeeCode, err)
		}
		byCode[saved.EmployeeCode] = saved
	}

	today := time.Now().In(loc)
	return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, rec := range GetDemoRecords() {
			emp, ok := byCode[rec.EmployeeCode]
			if !ok {
				return fmt.Errorf("seed record references unknown employee %s", rec.EmployeeCode)
			}

			day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -rec.DaysAgo)

			checkIn, err := clockOnDay(day, rec.CheckIn, loc)
			if err != nil {
				return fmt.Errorf("seed record for %s: %w", rec.EmployeeCode, err)
			}
			checkOut, err := clockOnDay(day, rec.CheckOut, loc)
			if err != nil {
				return fmt.Errorf("seed record for %s: %w", rec.EmployeeCode, err)
			}

			var totalHours float64
			if checkIn != nil && checkOut != nil {
				totalHours = attendance.WorkedHours(*checkIn, *checkOut)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO attendances (id, employee_id, date, check_in_time, check_out_time, status, total_hours)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (employee_id, date) DO NOTHING`,
				uuid.NewString(), emp.ID, day, checkIn, checkOut, string(rec.Status), totalHours,
			)
			if err != nil {
				return fmt.Errorf("seed record for %s: %w", rec.EmployeeCode, err)
			}
		}
		return nil
	})
}

func clockOnDay(day time.Time, clock string, loc *time.Location) (*time.Time, error) {
	if clock == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("15:04", clock, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	return timePtr(t), nil
}
