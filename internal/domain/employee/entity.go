package employee

import (
	"time"
)

// Employee is owned by the wider HR system; the attendance core only reads
// the fields it joins into team views and exports.
type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
	Email        string
	Department   string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
)
