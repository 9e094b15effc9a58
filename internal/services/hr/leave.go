package hr

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

// ErrAlreadyDecided signals a second decision on the same leave request.
var ErrAlreadyDecided = fmt.Errorf("leave request has already been decided")

// LeaveDays computes the inclusive day count of a leave span:
// ceil((end-start)/24h) + 1, so a single-day leave counts as 1.
func LeaveDays(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return math.Ceil(end.Sub(start).Hours()/24) + 1
}

// RequestLeave files a pending leave request.
func (s *Service) RequestLeave(orgID string, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	if _, err := s.GetEmployee(orgID, r.EmployeeID); err != nil {
		return nil, err
	}
	if r.EndDate.Before(r.StartDate) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}
	if r.Type == "" {
		r.Type = "annual"
	}

	r.ID = uuid.New().String()
	r.OrganizationID = orgID
	r.Status = models.LeaveStatusPending
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO leave_requests (id, organization_id, employee_id, type, start_date, end_date, reason, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, orgID, r.EmployeeID, r.Type, r.StartDate, r.EndDate, r.Reason, r.Status, now, now)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetLeave loads one leave request.
func (s *Service) GetLeave(orgID, id string) (*models.LeaveRequest, error) {
	var r models.LeaveRequest
	err := s.db.QueryRow(`
		SELECT id, organization_id, employee_id, type, start_date, end_date, reason, status, created_at, updated_at
		FROM leave_requests WHERE id = ? AND organization_id = ?
	`, id, orgID).Scan(&r.ID, &r.OrganizationID, &r.EmployeeID, &r.Type, &r.StartDate, &r.EndDate,
		&r.Reason, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("leave request not found")
		}
		return nil, err
	}
	return &r, nil
}

// ListLeave returns the organization's leave requests, newest first.
func (s *Service) ListLeave(orgID string) ([]*models.LeaveRequest, error) {
	rows, err := s.db.Query(`
		SELECT id, organization_id, employee_id, type, start_date, end_date, reason, status, created_at, updated_at
		FROM leave_requests WHERE organization_id = ? ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*models.LeaveRequest{}
	for rows.Next() {
		var r models.LeaveRequest
		if err := rows.Scan(&r.ID, &r.OrganizationID, &r.EmployeeID, &r.Type, &r.StartDate,
			&r.EndDate, &r.Reason, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

// ApproveLeave approves a pending request and charges the employee's
// balance for the year of the start date. The charge is capped at the
// remaining allowance. A decided request returns ErrAlreadyDecided.
func (s *Service) ApproveLeave(orgID, id string) (*models.LeaveRequest, error) {
	r, err := s.GetLeave(orgID, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.LeaveStatusPending {
		return nil, ErrAlreadyDecided
	}

	balance, err := s.getOrCreateBalance(r.EmployeeID, r.StartDate.Year())
	if err != nil {
		return nil, err
	}

	used := balance.UsedDays + LeaveDays(r.StartDate, r.EndDate)
	if used > balance.TotalDays {
		used = balance.TotalDays
	}
	if _, err := s.db.Exec("UPDATE leave_balances SET used_days = ? WHERE id = ?", used, balance.ID); err != nil {
		return nil, err
	}

	r.Status = models.LeaveStatusApproved
	r.UpdatedAt = time.Now().UTC()
	if _, err := s.db.Exec("UPDATE leave_requests SET status = ?, updated_at = ? WHERE id = ?",
		r.Status, r.UpdatedAt, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

// RejectLeave rejects a pending request without touching the balance.
func (s *Service) RejectLeave(orgID, id string) (*models.LeaveRequest, error) {
	r, err := s.GetLeave(orgID, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.LeaveStatusPending {
		return nil, ErrAlreadyDecided
	}

	r.Status = models.LeaveStatusRejected
	r.UpdatedAt = time.Now().UTC()
	if _, err := s.db.Exec("UPDATE leave_requests SET status = ?, updated_at = ? WHERE id = ?",
		r.Status, r.UpdatedAt, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

// GetBalance returns the employee's balance for a year, creating the
// default allowance row on first use.
func (s *Service) GetBalance(orgID, employeeID string, year int) (*models.LeaveBalance, error) {
	if _, err := s.GetEmployee(orgID, employeeID); err != nil {
		return nil, err
	}
	return s.getOrCreateBalance(employeeID, year)
}

func (s *Service) getOrCreateBalance(employeeID string, year int) (*models.LeaveBalance, error) {
	var b models.LeaveBalance
	err := s.db.QueryRow(
		"SELECT id, employee_id, year, total_days, used_days FROM leave_balances WHERE employee_id = ? AND year = ?",
		employeeID, year).Scan(&b.ID, &b.EmployeeID, &b.Year, &b.TotalDays, &b.UsedDays)
	if err == nil {
		return &b, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	b = models.LeaveBalance{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Year:       year,
		TotalDays:  20,
		UsedDays:   0,
	}
	if _, err := s.db.Exec(
		"INSERT INTO leave_balances (id, employee_id, year, total_days, used_days) VALUES (?, ?, ?, ?, 0)",
		b.ID, employeeID, year, b.TotalDays); err != nil {
		return nil, err
	}
	return &b, nil
}
