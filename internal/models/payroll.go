package models

import (
	"time"
)

// Employee is an HR record; Salary is the gross annual salary in the
// organization's base currency.
type Employee struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	UserID         string    `json:"user_id,omitempty" db:"user_id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Department     string    `json:"department" db:"department"`
	Position       string    `json:"position" db:"position"`
	Salary         float64   `json:"salary" db:"salary"`
	HireDate       time.Time `json:"hire_date" db:"hire_date"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PayrollItem is the per-employee deduction breakdown inside a payroll run.
type PayrollItem struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	Gross         float64 `json:"gross"`
	Pension       float64 `json:"pension"`
	NHF           float64 `json:"nhf"`
	CRA           float64 `json:"cra"`
	TaxableIncome float64 `json:"taxable_income"`
	PAYE          float64 `json:"paye"`
	NetPay        float64 `json:"net_pay"`
}

// PayrollTotals aggregates the item columns.
type PayrollTotals struct {
	Gross   float64 `json:"gross"`
	Pension float64 `json:"pension"`
	NHF     float64 `json:"nhf"`
	PAYE    float64 `json:"paye"`
	NetPay  float64 `json:"net_pay"`
}

// Payroll is a monthly run. (Month, Year) is unique per organization;
// Items is stored as a JSON column.
type Payroll struct {
	ID             string        `json:"id" db:"id"`
	OrganizationID string        `json:"organization_id" db:"organization_id"`
	Month          int           `json:"month" db:"month"`
	Year           int           `json:"year" db:"year"`
	Items          []PayrollItem `json:"items" db:"items"`
	Totals         PayrollTotals `json:"totals" db:"totals"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// Leave request statuses.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// LeaveRequest is an employee leave application.
type LeaveRequest struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	EmployeeID     string    `json:"employee_id" db:"employee_id"`
	Type           string    `json:"type" db:"type"` // annual, sick, unpaid...
	StartDate      time.Time `json:"start_date" db:"start_date"`
	EndDate        time.Time `json:"end_date" db:"end_date"`
	Reason         string    `json:"reason" db:"reason"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// LeaveBalance tracks an employee's allowance for one year.
type LeaveBalance struct {
	ID         string  `json:"id" db:"id"`
	EmployeeID string  `json:"employee_id" db:"employee_id"`
	Year       int     `json:"year" db:"year"`
	TotalDays  float64 `json:"total_days" db:"total_days"`
	UsedDays   float64 `json:"used_days" db:"used_days"`
}

// Benefit is a persisted benefit definition.
type Benefit struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	MonthlyCost    float64   `json:"monthly_cost" db:"monthly_cost"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ComplianceRequirement is a persisted statutory requirement entry.
type ComplianceRequirement struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Authority      string    `json:"authority" db:"authority"`
	DueDay         int       `json:"due_day" db:"due_day"` // day of month
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
