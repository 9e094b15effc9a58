package hr

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const employeeColumns = `id, organization_id, user_id, first_name, last_name, email, department,
	position, salary, hire_date, is_active, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.OrganizationID, &e.UserID, &e.FirstName, &e.LastName, &e.Email,
		&e.Department, &e.Position, &e.Salary, &e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEmployee adds an HR record.
func (s *Service) CreateEmployee(orgID string, e *models.Employee) (*models.Employee, error) {
	if e.FirstName == "" || e.LastName == "" || e.Email == "" {
		return nil, fmt.Errorf("first_name, last_name and email are required")
	}
	if e.Salary < 0 {
		return nil, fmt.Errorf("salary cannot be negative")
	}

	e.ID = uuid.New().String()
	e.OrganizationID = orgID
	e.IsActive = true
	now := time.Now().UTC()
	if e.HireDate.IsZero() {
		e.HireDate = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO employees (id, organization_id, user_id, first_name, last_name, email,
			department, position, salary, hire_date, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, e.ID, orgID, e.UserID, e.FirstName, e.LastName, e.Email, e.Department, e.Position,
		e.Salary, e.HireDate, now, now)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEmployee loads one employee scoped to the organization.
func (s *Service) GetEmployee(orgID, id string) (*models.Employee, error) {
	row := s.db.QueryRow("SELECT "+employeeColumns+" FROM employees WHERE id = ? AND organization_id = ?", id, orgID)
	e, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("employee not found")
		}
		return nil, err
	}
	return e, nil
}

// ListEmployees returns the organization's employees.
func (s *Service) ListEmployees(orgID string) ([]*models.Employee, error) {
	rows, err := s.db.Query("SELECT "+employeeColumns+" FROM employees WHERE organization_id = ? ORDER BY last_name, first_name", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateEmployee edits mutable employee fields.
func (s *Service) UpdateEmployee(orgID, id string, e *models.Employee) (*models.Employee, error) {
	existing, err := s.GetEmployee(orgID, id)
	if err != nil {
		return nil, err
	}

	if e.FirstName != "" {
		existing.FirstName = e.FirstName
	}
	if e.LastName != "" {
		existing.LastName = e.LastName
	}
	if e.Department != "" {
		existing.Department = e.Department
	}
	if e.Position != "" {
		existing.Position = e.Position
	}
	if e.Salary > 0 {
		existing.Salary = e.Salary
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE employees SET first_name = ?, last_name = ?, department = ?, position = ?, salary = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`, existing.FirstName, existing.LastName, existing.Department, existing.Position,
		existing.Salary, existing.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// DeactivateEmployee soft-disables an employee (kept for payroll history).
func (s *Service) DeactivateEmployee(orgID, id string) error {
	res, err := s.db.Exec("UPDATE employees SET is_active = 0, updated_at = ? WHERE id = ? AND organization_id = ?",
		time.Now().UTC(), id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("employee not found")
	}
	return nil
}
