package employee

import "time"

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	Role         Role   `json:"role"`
	CreatedAt    string `json:"created_at"`
}

func NewEmployeeResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           emp.ID,
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.Name,
		Email:        emp.Email,
		Department:   emp.Department,
		Role:         emp.Role,
		CreatedAt:    emp.CreatedAt.Format(time.RFC3339),
	}
}

func NewEmployeeResponses(emps []Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, 0, len(emps))
	for _, emp := range emps {
		responses = append(responses, NewEmployeeResponse(emp))
	}
	return responses
}

// ListResponse is the manager-facing roster.
type ListResponse struct {
	Count     int                `json:"count"`
	Employees []EmployeeResponse `json:"employees"`
}
