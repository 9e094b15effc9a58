package payroll

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
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

// Process creates the payroll run for (month, year) over all active
// employees. The period is unique per organization; a duplicate returns
// ErrDuplicatePeriod so the handler can answer 409.
func (s *Service) Process(orgID string, month, year int) (*models.Payroll, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("year out of range")
	}

	employees, err := s.activeEmployees(orgID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("no active employees to process")
	}

	items := make([]models.PayrollItem, 0, len(employees))
	for _, e := range employees {
		b := Compute(e.Salary)
		items = append(items, models.PayrollItem{
			EmployeeID:    e.ID,
			EmployeeName:  e.FirstName + " " + e.LastName,
			Gross:         b.Gross,
			Pension:       b.Pension,
			NHF:           b.NHF,
			CRA:           b.CRA,
			TaxableIncome: b.TaxableIncome,
			PAYE:          b.PAYE,
			NetPay:        b.NetPay,
		})
	}

	p := &models.Payroll{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Month:          month,
		Year:           year,
		Items:          items,
		Totals:         sumItems(items),
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	itemsJSON, _ := json.Marshal(p.Items)
	totalsJSON, _ := json.Marshal(p.Totals)
	_, err = s.db.Exec(`
		INSERT INTO payrolls (id, organization_id, month, year, items, totals, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, orgID, month, year, string(itemsJSON), string(totalsJSON), now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrDuplicatePeriod
		}
		return nil, err
	}
	return p, nil
}

// ErrDuplicatePeriod signals that a payroll already exists for the period.
var ErrDuplicatePeriod = fmt.Errorf("payroll already exists for this period")

// Get loads one payroll run.
func (s *Service) Get(orgID, id string) (*models.Payroll, error) {
	row := s.db.QueryRow(
		"SELECT id, organization_id, month, year, items, totals, created_at, updated_at FROM payrolls WHERE id = ? AND organization_id = ?",
		id, orgID)
	return scanPayroll(row)
}

// List returns the organization's payroll runs, newest period first.
func (s *Service) List(orgID string) ([]*models.Payroll, error) {
	rows, err := s.db.Query(
		"SELECT id, organization_id, month, year, items, totals, created_at, updated_at FROM payrolls WHERE organization_id = ? ORDER BY year DESC, month DESC",
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payrolls := []*models.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, rows.Err()
}

// UpdateItem replaces one employee's gross in an existing run and
// recomputes that item and the totals.
func (s *Service) UpdateItem(orgID, id, employeeID string, gross float64) (*models.Payroll, error) {
	p, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range p.Items {
		if p.Items[i].EmployeeID != employeeID {
			continue
		}
		b := Compute(gross)
		name := p.Items[i].EmployeeName
		p.Items[i] = models.PayrollItem{
			EmployeeID:    employeeID,
			EmployeeName:  name,
			Gross:         b.Gross,
			Pension:       b.Pension,
			NHF:           b.NHF,
			CRA:           b.CRA,
			TaxableIncome: b.TaxableIncome,
			PAYE:          b.PAYE,
			NetPay:        b.NetPay,
		}
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("employee not in this payroll")
	}

	p.Totals = sumItems(p.Items)
	p.UpdatedAt = time.Now().UTC()

	itemsJSON, _ := json.Marshal(p.Items)
	totalsJSON, _ := json.Marshal(p.Totals)
	_, err = s.db.Exec("UPDATE payrolls SET items = ?, totals = ?, updated_at = ? WHERE id = ? AND organization_id = ?",
		string(itemsJSON), string(totalsJSON), p.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a payroll run.
func (s *Service) Delete(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM payrolls WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("payroll not found")
	}
	return nil
}

// sumItems aggregates the item columns into totals. By construction
// totals.gross == sum(items.gross) and totals.net_pay == sum(items.net_pay).
func sumItems(items []models.PayrollItem) models.PayrollTotals {
	var t models.PayrollTotals
	for _, it := range items {
		t.Gross += it.Gross
		t.Pension += it.Pension
		t.NHF += it.NHF
		t.PAYE += it.PAYE
		t.NetPay += it.NetPay
	}
	t.Gross = round2(t.Gross)
	t.Pension = round2(t.Pension)
	t.NHF = round2(t.NHF)
	t.PAYE = round2(t.PAYE)
	t.NetPay = round2(t.NetPay)
	return t
}

func (s *Service) activeEmployees(orgID string) ([]*models.Employee, error) {
	rows, err := s.db.Query(`
		SELECT id, organization_id, user_id, first_name, last_name, email, department, position,
			salary, hire_date, is_active, created_at, updated_at
		FROM employees WHERE organization_id = ? AND is_active = 1 ORDER BY last_name, first_name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.UserID, &e.FirstName, &e.LastName,
			&e.Email, &e.Department, &e.Position, &e.Salary, &e.HireDate, &e.IsActive,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

func scanPayroll(row interface{ Scan(...any) error }) (*models.Payroll, error) {
	var p models.Payroll
	var itemsJSON, totalsJSON string
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Month, &p.Year, &itemsJSON, &totalsJSON,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payroll not found")
		}
		return nil, err
	}
	json.Unmarshal([]byte(itemsJSON), &p.Items)
	json.Unmarshal([]byte(totalsJSON), &p.Totals)
	return &p, nil
}
