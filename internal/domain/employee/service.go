package employee

import "context"

// EmployeeService exposes the read-only roster managers browse when
// filtering team attendance.
type EmployeeService interface {
	// List returns all employees ordered by employee code
	List(ctx context.Context) (ListResponse, error)

	// GetByID returns a single employee
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}
