package employee

import (
	"context"
)

// EmployeeRepository defines data access for the employee reference data
// attendance depends on.
type EmployeeRepository interface {
	// GetByID retrieves a single employee
	GetByID(ctx context.Context, id string) (Employee, error)

	// List retrieves all employees ordered by employee code
	List(ctx context.Context) ([]Employee, error)

	// Upsert inserts an employee or updates it by email; used by seeding
	Upsert(ctx context.Context, emp Employee) (Employee, error)
}
