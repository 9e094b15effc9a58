package hr

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testEmployee(t *testing.T, s *Service, orgID string) *models.Employee {
	t.Helper()
	e, err := s.CreateEmployee(orgID, &models.Employee{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada.obi@example.com",
		Salary:    250000,
	})
	require.NoError(t, err)
	return e
}

func TestLeaveDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 1.0, LeaveDays(day(2), day(2)))
	assert.Equal(t, 5.0, LeaveDays(day(2), day(6)))
	assert.Equal(t, 0.0, LeaveDays(day(6), day(2)))

	// Partial days round up before the inclusive +1.
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, 4.0, LeaveDays(start, end))
}

func TestApproveLeaveChargesBalance(t *testing.T) {
	s := NewService(testDB(t))
	emp := testEmployee(t, s, "org1")

	req, err := s.RequestLeave("org1", &models.LeaveRequest{
		EmployeeID: emp.ID,
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		Reason:     "vacation",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusPending, req.Status)

	approved, err := s.ApproveLeave("org1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, approved.Status)

	balance, err := s.GetBalance("org1", emp.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 20.0, balance.TotalDays)
	assert.Equal(t, 5.0, balance.UsedDays)
}

func TestApproveLeaveCapsAtAllowance(t *testing.T) {
	s := NewService(testDB(t))
	emp := testEmployee(t, s, "org1")

	req, err := s.RequestLeave("org1", &models.LeaveRequest{
		EmployeeID: emp.ID,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = s.ApproveLeave("org1", req.ID)
	require.NoError(t, err)

	balance, err := s.GetBalance("org1", emp.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, balance.TotalDays, balance.UsedDays)
}

func TestDecideLeaveTwice(t *testing.T) {
	s := NewService(testDB(t))
	emp := testEmployee(t, s, "org1")

	req, err := s.RequestLeave("org1", &models.LeaveRequest{
		EmployeeID: emp.ID,
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = s.ApproveLeave("org1", req.ID)
	require.NoError(t, err)

	_, err = s.ApproveLeave("org1", req.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	_, err = s.RejectLeave("org1", req.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestRejectLeaveDoesNotChargeBalance(t *testing.T) {
	s := NewService(testDB(t))
	emp := testEmployee(t, s, "org1")

	req, err := s.RequestLeave("org1", &models.LeaveRequest{
		EmployeeID: emp.ID,
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = s.RejectLeave("org1", req.ID)
	require.NoError(t, err)

	balance, err := s.GetBalance("org1", emp.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.UsedDays)
}

func TestLeaveRequestValidation(t *testing.T) {
	s := NewService(testDB(t))
	emp := testEmployee(t, s, "org1")

	_, err := s.RequestLeave("org1", &models.LeaveRequest{
		EmployeeID: emp.ID,
		StartDate:  time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)

	_, err = s.RequestLeave("org1", &models.LeaveRequest{
		EmployeeID: "missing",
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorContains(t, err, "not found")
}
